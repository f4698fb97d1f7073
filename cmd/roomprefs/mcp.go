package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/mark3labs/roomprefs/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	stdio bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve room notification settings as MCP tools",
	Long: `Serve room notification settings as MCP tools.

By default the streamable HTTP transport is served on a random loopback
port and its URL printed. With --stdio the server speaks MCP over
stdin/stdout instead, for agents that spawn it directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		srv := mcpserver.New(b.store, version)
		if mcpFlags.stdio {
			return server.NewStdioServer(srv.MCPServer()).Listen(ctx, os.Stdin, os.Stdout)
		}

		if _, err := srv.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("MCP server listening on %s\n", srv.URL())

		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(stopCtx); err != nil {
			logger.Warn("Stopping MCP server: %v", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpFlags.stdio, "stdio", false, "Serve over stdin/stdout")
}
