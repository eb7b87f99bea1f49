// Package service hosts the internet offer flow MCP server. It binds the
// domain tool handlers to an MCP server instance and serves them over stdio
// or streamable HTTP.
package service
