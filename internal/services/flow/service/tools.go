package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/domain"
)

// registerFlowTools binds the six flow tools to the MCP server. Handler
// dependencies are shared so every tool observes the same registry and
// session states.
func registerFlowTools(
	server *mcp.Server,
	directory domain.UserDirectory,
	recorder domain.SubmissionRecorder,
	registry domain.ConversationRegistry,
	states domain.StateResolver,
) {
	mcp.AddTool(server, domain.AuthenticateTool(), domain.AuthenticateHandler(directory, registry, states))
	mcp.AddTool(server, domain.DownloadUserInfoTool(), domain.DownloadUserInfoHandler(directory, registry, states))
	mcp.AddTool(server, domain.PrepareNewOfferTool(), domain.PrepareNewOfferHandler(directory, registry, states))
	mcp.AddTool(server, domain.SubmitOfferTool(), domain.SubmitOfferHandler(directory, recorder, registry, states))
	mcp.AddTool(server, domain.FlowStatusTool(), domain.FlowStatusHandler(registry, states))
	mcp.AddTool(server, domain.LogoutTool(), domain.LogoutHandler(registry, states))
}
