// Package session provides conversation state on top of the service
// layer. A Branch owns one transcript backed by a pile and an explicit
// order, talks to a ChatService, and can be cloned, snapshotted and
// mailed to. A Session manages a pile of branches and routes mail
// between them.
package session
