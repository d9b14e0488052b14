// Package message defines the typed chat messages exchanged inside a
// branch: system directives, user instructions, assistant responses and
// action (tool) requests/responses.
//
// Messages embed core.Element, so they can live in piles and be ordered
// by progressions. Helpers convert a transcript to and from langchaingo
// message content, letting any langchaingo model consume it.
package message
