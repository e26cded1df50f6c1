package geo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/pkg/logger"
	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

// BackfillEntities charge le découpage administratif publié sur le portail
// source et le reverse dans geo_entities. La page expose une table
// `table.decoupage tbody tr` avec les colonnes id, code, nom, niveau,
// id parent (vide pour les provinces).
func (s *Service) BackfillEntities(ctx context.Context, sourceURL string) ([]*domain.GeoEntity, error) {
	doc, err := fetchDocument(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetchDocument: %w", err)
	}

	entities, err := parseEntities(doc)
	if err != nil {
		return nil, fmt.Errorf("parseEntities: %w", err)
	}

	if err = s.store.UpsertGeoEntities(ctx, entities); err != nil {
		logger.Errorf(ctx, "UpsertGeoEntities: %s", err.Error())
		return nil, fmt.Errorf("store.UpsertGeoEntities: %w", err)
	}

	logger.Infof(ctx, "backfilled %d geo entities from %s", len(entities), sourceURL)

	return entities, nil
}

func fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to get source page: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("goquery.NewDocumentFromReader: %w", err))
		}

		return nil
	}, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func parseEntities(doc *goquery.Document) ([]*domain.GeoEntity, error) {
	var (
		entities []*domain.GeoEntity
		err      error
	)

	doc.Find("table.decoupage tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) < 5 {
			err = fmt.Errorf("row %d: expected 5 cells, got %d", i, len(cells))
			return false
		}

		id, parseErr := strconv.ParseInt(cells[0], 10, 64)
		if parseErr != nil {
			err = fmt.Errorf("row %d: failed to parse id: %w", i, parseErr)
			return false
		}

		level := domain.GeoLevel(cells[3])
		if !level.Valid() || level == domain.GeoLevelGlobal {
			err = fmt.Errorf("row %d: unknown level %q", i, cells[3])
			return false
		}

		entity := &domain.GeoEntity{
			ID:    id,
			Code:  cells[1],
			Name:  cells[2],
			Level: level,
		}

		if cells[4] != "" {
			parentID, parseErr := strconv.ParseInt(cells[4], 10, 64)
			if parseErr != nil {
				err = fmt.Errorf("row %d: failed to parse parent id: %w", i, parseErr)
				return false
			}
			entity.ParentID = &parentID
		}

		entities = append(entities, entity)
		return true
	})
	if err != nil {
		return nil, err
	}

	return entities, nil
}
