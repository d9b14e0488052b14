// Package docs loads documents from text, Markdown and HTML sources
// and splits them into overlapping chunks sized for model context
// windows.
package docs
