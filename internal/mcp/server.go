// ABOUTME: MCP server exposing the workout log to AI assistants.
// ABOUTME: Registers tools and resources over a storage Repository and serves on stdio.
package mcp

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/storage"
)

const (
	serverName    = "gymlog"
	serverVersion = "1.0.0"

	instructions = `Workout log. Exercises have unique names of at least three characters.
Workouts have a date (YYYY-MM-DD) and a positive duration in minutes. log_exercise
records an exercise in a workout and needs at least one of reps, sets or
duration_seconds. Deleting an exercise or workout also deletes its log entries.`
)

// Server holds the MCP server and the repository its handlers use.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	logger    *log.Logger
}

// NewServer builds a server with every tool and resource registered.
func NewServer(repo storage.Repository) (*Server, error) {
	if repo == nil {
		return nil, errors.New("mcp server requires a repository")
	}

	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{Name: serverName, Version: serverVersion},
			&mcp.ServerOptions{Instructions: instructions},
		),
		repo:   repo,
		logger: logging.Component("mcp"),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Serve runs over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving on stdio", "version", serverVersion)
	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
