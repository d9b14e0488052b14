// Package action provides tool registration and invocation. Tools are
// named functions a model can call through action request messages; the
// Manager resolves a request to a registered tool, runs it, and wraps
// the output in an action response message.
package action
