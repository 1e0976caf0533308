package terceros

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// BirthDateLayout is the accepted textual form of a birth date.
const BirthDateLayout = "2006-01-02"

// Service implements the list, fetch-one, save and delete operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service. A nil logger discards output.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// List returns every record ordered by ascending identifier.
func (s *Service) List(ctx context.Context) ([]ThirdParty, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("terceros: list: %w", err)
	}
	return records, nil
}

// Get looks up a single record. A nil id and an unknown id both return
// nil without error: the caller renders a blank creation form in both cases.
func (s *Service) Get(ctx context.Context, id *int64) (*ThirdParty, error) {
	if id == nil {
		return nil, nil
	}
	record, err := s.repo.Get(ctx, *id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("terceros: get %d: %w", *id, err)
	}
	return record, nil
}

// Save inserts a record when in.ID is empty and updates the matching row
// otherwise. Updating an identifier with no row affects nothing and still
// succeeds.
func (s *Service) Save(ctx context.Context, in SaveInput) (SaveResult, error) {
	record, err := recordFromInput(in)
	if err != nil {
		return SaveResult{}, fmt.Errorf("terceros: save: %w", err)
	}

	rawID := strings.TrimSpace(in.ID)
	if rawID == "" {
		var id int64
		err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			var err error
			id, err = repo.Create(ctx, record)
			return err
		})
		if err != nil {
			return SaveResult{}, fmt.Errorf("terceros: insert: %w", err)
		}
		return SaveResult{ID: id, Created: true, Affected: 1}, nil
	}

	id, err := parseID(rawID)
	if err != nil {
		return SaveResult{}, fmt.Errorf("terceros: save: %w", err)
	}
	var affected int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		affected, err = repo.Update(ctx, id, record)
		return err
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("terceros: update %d: %w", id, err)
	}
	if affected == 0 {
		s.logger.Info("update matched no record", slog.Int64("id", id))
	}
	return SaveResult{ID: id, Affected: affected}, nil
}

// Delete removes the record permanently. Deleting an unknown identifier
// affects nothing and still succeeds.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if id < 0 {
		return 0, fmt.Errorf("terceros: delete: %w", ErrInvalidID)
	}
	var affected int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		affected, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("terceros: delete %d: %w", id, err)
	}
	if affected == 0 {
		s.logger.Info("delete matched no record", slog.Int64("id", id))
	}
	return affected, nil
}

func recordFromInput(in SaveInput) (ThirdParty, error) {
	birth, err := ParseBirthDate(in.BirthDate)
	if err != nil {
		return ThirdParty{}, err
	}
	return ThirdParty{
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		GivenNames:     in.GivenNames,
		Surnames:       in.Surnames,
		BirthDate:      birth,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
		PartyType:      in.PartyType,
		Status:         in.Status,
	}, nil
}

// ParseBirthDate parses a YYYY-MM-DD date. Blank input means no date.
func ParseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(BirthDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBirthDate, raw)
	}
	return &t, nil
}

// ParseID parses a non-negative integer identifier. Zero is valid and simply
// matches no row.
func ParseID(raw string) (int64, error) {
	return parseID(strings.TrimSpace(raw))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
