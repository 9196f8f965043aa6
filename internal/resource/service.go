// backend/internal/resource/service.go
package resource

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
)

const maxGroupsPerLookup = 20

type Store interface {
	Create(ctx context.Context, res *models.Resource) error
	Delete(ctx context.Context, resourceID string) error
	ListByGroup(ctx context.Context, groupID string) ([]models.Resource, error)
}

type GroupLookup interface {
	GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error)
}

type Input struct {
	URL    string `json:"url" validate:"required,url,max=2048"`
	Title  string `json:"title" validate:"required,max=200"`
	ImgSrc string `json:"imgSrc" validate:"omitempty,url,max=2048"`
}

type Service struct {
	store  Store
	groups GroupLookup
	now    func() time.Time
}

func NewService(store Store, groups GroupLookup) *Service {
	return &Service{store: store, groups: groups, now: time.Now}
}

func (s *Service) Create(ctx context.Context, groupID string, in Input, createdBy string) (*models.Resource, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	res := &models.Resource{
		ResourceID: uuid.NewString(),
		GroupID:    groupID,
		URL:        strings.TrimSpace(in.URL),
		Title:      strings.TrimSpace(in.Title),
		ImgSrc:     strings.TrimSpace(in.ImgSrc),
		CreatedAt:  s.now(),
		CreatedBy:  createdBy,
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) Delete(ctx context.Context, resourceID string) error {
	err := s.store.Delete(ctx, resourceID)
	if errors.Is(err, ErrResourceNotFound) {
		return apperror.NotFound("Resource not found")
	}
	return err
}

// ListForGroups fetches each group's resources concurrently and concatenates them
// in the order the groups were requested. Repeated group ids are fetched once.
func (s *Service) ListForGroups(ctx context.Context, groupIDs []string) ([]models.Resource, error) {
	ids := dedupe(groupIDs)
	if len(ids) == 0 {
		return nil, apperror.BadRequest("groupId is required")
	}
	if len(ids) > maxGroupsPerLookup {
		return nil, apperror.BadRequest("Too many groupId values")
	}

	perGroup := make([][]models.Resource, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			resources, err := s.store.ListByGroup(gctx, id)
			if err != nil {
				return err
			}
			perGroup[i] = resources
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Resource, 0)
	for _, resources := range perGroup {
		out = append(out, resources...)
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
