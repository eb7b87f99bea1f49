// Package domain implements the customer upgrade conversation flow: the
// staged state machine, the conversation registry used to recover state
// across stateless tool calls, and the MCP tool handlers that sequence
// authentication, profile download, offer preparation, and submission.
package domain
