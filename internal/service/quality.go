package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/report"
)

var (
	// ErrNightNotFound is returned when a night id does not exist.
	ErrNightNotFound = errors.New("night not found")
	// ErrInvalidQuality is returned for ratings outside 0..5.
	ErrInvalidQuality = errors.New("invalid sleep quality")
)

// QualityStore is what rating a night needs.
type QualityStore interface {
	Get(ctx context.Context, id int64) (*repository.Night, error)
	Update(ctx context.Context, n repository.Night) error
}

// QualityService backs the quality screen shown after a night is stopped.
type QualityService struct {
	Nights QualityStore
	Log    logrus.FieldLogger
}

// SetQuality records how well the night went.
func (s *QualityService) SetQuality(ctx context.Context, nightID int64, quality int) (repository.Night, error) {
	if s.Nights == nil {
		return repository.Night{}, fmt.Errorf("quality: store not configured")
	}
	if quality < report.MinQuality || quality > report.MaxQuality {
		return repository.Night{}, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}
	n, err := s.Nights.Get(ctx, nightID)
	if err != nil {
		return repository.Night{}, fmt.Errorf("load night %d: %w", nightID, err)
	}
	if n == nil {
		return repository.Night{}, fmt.Errorf("%w: %d", ErrNightNotFound, nightID)
	}
	n.Quality = quality
	if err := s.Nights.Update(ctx, *n); err != nil {
		return repository.Night{}, fmt.Errorf("update night %d: %w", nightID, err)
	}
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{"night_id": nightID, "quality": quality}).Info("night rated")
	}
	return *n, nil
}
