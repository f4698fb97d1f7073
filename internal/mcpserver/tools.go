package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_rooms",
			mcp.WithDescription("List known rooms with their effective notification mode"),
		),
		s.handleListRooms,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_room_notification_mode",
			mcp.WithDescription("Get the effective notification mode of a room and whether it follows the default"),
			mcp.WithString("room", mcp.Required(), mcp.Description("Room ID, e.g. !abc:example.org")),
		),
		s.handleGetMode,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_room_notification_mode",
			mcp.WithDescription("Set an explicit notification mode for a room"),
			mcp.WithString("room", mcp.Required(), mcp.Description("Room ID")),
			mcp.WithString("mode", mcp.Required(),
				mcp.Description("Notification mode"),
				mcp.Enum("all", "mentions", "mute"),
			),
		),
		s.handleSetMode,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("restore_default_room_notification_mode",
			mcp.WithDescription("Remove a room's explicit mode so it follows the default again"),
			mcp.WithString("room", mcp.Required(), mcp.Description("Room ID")),
		),
		s.handleRestoreDefault,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_default_notification_mode",
			mcp.WithDescription("Set the default notification mode for a kind of room"),
			mcp.WithString("mode", mcp.Required(),
				mcp.Description("Notification mode"),
				mcp.Enum("all", "mentions", "mute"),
			),
			mcp.WithBoolean("one_to_one", mcp.Description("Applies to direct chats instead of group rooms")),
			mcp.WithBoolean("encrypted", mcp.Description("Applies to encrypted rooms")),
		),
		s.handleSetDefault,
	)
}
