// ABOUTME: MCP resource implementations for the workout log.
// ABOUTME: Provides gymlog://exercises and gymlog://workouts/recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/schemas"
)

const (
	exercisesURI      = "gymlog://exercises"
	recentWorkoutsURI = "gymlog://workouts/recent"
	recentWorkoutsMax = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         exercisesURI,
		Name:        "Exercise Catalog",
		Description: "Every exercise with its category and equipment flag",
		MIMEType:    "application/json",
	}, s.handleExercisesResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentWorkoutsURI,
		Name:        "Recent Workouts",
		Description: "Last 10 workouts with their exercises",
		MIMEType:    "application/json",
	}, s.handleRecentWorkoutsResource)
}

// Resource handlers

func (s *Server) handleExercisesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	list, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	views := schemas.DumpExercises(list)
	return jsonResource(exercisesURI, map[string]any{
		"exercises": views,
		"count":     len(views),
	})
}

func (s *Server) handleRecentWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	views, err := s.recentWorkouts(ctx, recentWorkoutsMax)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	totalMinutes := 0
	for _, v := range views {
		totalMinutes += v.DurationMinutes
	}

	return jsonResource(recentWorkoutsURI, map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"workouts":     views,
		"summary": map[string]int{
			"workout_count": len(views),
			"total_minutes": totalMinutes,
		},
	})
}

func jsonResource(uri string, result any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
