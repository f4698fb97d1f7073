package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/mark3labs/roomprefs/internal/notification"
)

// stringArg returns a required, non-empty string argument.
func stringArg(request mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	args := request.GetArguments()
	if args == nil {
		return "", mcp.NewToolResultText("error: no arguments provided")
	}
	v, ok := args[name].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", mcp.NewToolResultText(fmt.Sprintf("error: missing '%s' parameter", name))
	}
	return strings.TrimSpace(v), nil
}

func boolArg(request mcp.CallToolRequest, name string) bool {
	v, _ := request.GetArguments()[name].(bool)
	return v
}

func describe(settings notification.Settings) string {
	if settings.IsDefault {
		return fmt.Sprintf("%s (default)", settings.Mode)
	}
	return fmt.Sprintf("%s (default is %s)", settings.Mode, settings.Default)
}

func (s *Server) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	if len(rooms) == 0 {
		return mcp.NewToolResultText("no rooms"), nil
	}

	var b strings.Builder
	for _, room := range rooms {
		settings, err := s.store.RoomSettings(ctx, room.ID)
		if err != nil {
			return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", room.ID, room.DisplayName(), describe(settings))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	room, errResult := stringArg(request, "room")
	if errResult != nil {
		return errResult, nil
	}

	settings, err := s.store.RoomSettings(ctx, room)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(describe(settings)), nil
}

func (s *Server) handleSetMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	room, errResult := stringArg(request, "room")
	if errResult != nil {
		return errResult, nil
	}
	raw, errResult := stringArg(request, "mode")
	if errResult != nil {
		return errResult, nil
	}
	mode, err := notification.ParseMode(raw)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	if err := s.store.SetRoomMode(ctx, room, mode); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	logger.Info("MCP set %s to %s", room, mode)
	return mcp.NewToolResultText(fmt.Sprintf("%s set to %s", room, mode)), nil
}

func (s *Server) handleRestoreDefault(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	room, errResult := stringArg(request, "room")
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.RestoreDefaultMode(ctx, room); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	logger.Info("MCP restored default for %s", room)
	return mcp.NewToolResultText(fmt.Sprintf("%s follows the default again", room)), nil
}

func (s *Server) handleSetDefault(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, errResult := stringArg(request, "mode")
	if errResult != nil {
		return errResult, nil
	}
	mode, err := notification.ParseMode(raw)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	encrypted := boolArg(request, "encrypted")
	oneToOne := boolArg(request, "one_to_one")
	if err := s.store.SetDefaultMode(ctx, encrypted, oneToOne, mode); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	kind := "group"
	if oneToOne {
		kind = "one-to-one"
	}
	if encrypted {
		kind = "encrypted " + kind
	}
	return mcp.NewToolResultText(fmt.Sprintf("default for %s rooms set to %s", kind, mode)), nil
}
