package application

import (
	"fmt"
	"path/filepath"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

// HistoryService reads recorded validation runs.
type HistoryService struct {
	history domain.ReportHistory
}

func NewHistoryService(history domain.ReportHistory) *HistoryService {
	return &HistoryService{history: history}
}

// List returns recorded runs oldest first. A non-empty asset keeps only runs
// of that file; limit > 0 keeps only the most recent entries.
func (s *HistoryService) List(projectPath, asset string, limit int) ([]domain.HistoryEntry, error) {
	entries, err := s.history.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	if asset != "" {
		abs, err := filepath.Abs(asset)
		if err != nil {
			return nil, fmt.Errorf("resolving asset path: %w", err)
		}
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.AssetPath == abs {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
