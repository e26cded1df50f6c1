package indicator_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Oumar3/sidat/internal/domain"
	"github.com/Oumar3/sidat/internal/domain/dto"
	"github.com/Oumar3/sidat/internal/pkg/constants"
	"github.com/Oumar3/sidat/internal/pkg/store"
	"github.com/Oumar3/sidat/internal/pkg/store/storetest"
	"github.com/Oumar3/sidat/internal/service/followup"
	"github.com/Oumar3/sidat/internal/service/geo"
	"github.com/Oumar3/sidat/internal/service/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provinceID = int64(1)

func newService(t *testing.T) (*indicator.Service, *storetest.Store) {
	t.Helper()

	st := storetest.New()
	require.NoError(t, st.UpsertGeoEntities(context.Background(), []*domain.GeoEntity{
		{ID: provinceID, Code: "PR-01", Name: "Logone Occidental", Level: domain.GeoLevelProvince},
	}))

	return indicator.NewService(st, geo.NewService(st)), st
}

func validCreateRequest(code string) *dto.CreateIndicatorRequest {
	return &dto.CreateIndicatorRequest{
		Code:        code,
		Name:        "Taux d'alphabetisation",
		Type:        domain.IndicatorTypeImpact,
		Polarity:    domain.PolarityPositive,
		ProgrammeID: 7,
		SourceIDs:   []int64{11},
	}
}

func validSlice() *dto.DataSliceRequest {
	return &dto.DataSliceRequest{
		GeoLocation:    domain.GeoLocation{Type: domain.GeoLevelGlobal},
		AgeRange:       domain.AgeRangeAll,
		Gender:         domain.GenderBoth,
		SocialCategory: domain.SocialCategoryAll,
	}
}

func assertCoded(t *testing.T, err error, code int) {
	t.Helper()
	var ce *constants.CodedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, code, ce.Code())
}

func TestCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-001"))
	require.NoError(t, err)

	assert.Equal(t, "EDU-001", created.Code)
	assert.Empty(t, created.Data)
}

func TestCreate_Invalid(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("missing programme", func(t *testing.T) {
		req := validCreateRequest("EDU-010")
		req.ProgrammeID = 0
		_, err := svc.Create(ctx, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("no sources", func(t *testing.T) {
		req := validCreateRequest("EDU-011")
		req.SourceIDs = nil
		_, err := svc.Create(ctx, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("bad type", func(t *testing.T) {
		req := validCreateRequest("EDU-012")
		req.Type = "autre"
		_, err := svc.Create(ctx, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Create(ctx, validCreateRequest("EDU-013"))
		require.NoError(t, err)
		_, err = svc.Create(ctx, validCreateRequest("EDU-013"))
		assertCoded(t, err, http.StatusConflict)
	})

	t.Run("code comparison is case-sensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, validCreateRequest("EDU-014"))
		require.NoError(t, err)
		_, err = svc.Create(ctx, validCreateRequest("edu-014"))
		require.NoError(t, err)
	})
}

func TestAppendSlice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-002"))
	require.NoError(t, err)

	position, slice, err := svc.AppendSlice(ctx, created.ID, validSlice())
	require.NoError(t, err)
	assert.Equal(t, 0, position)
	assert.NotEmpty(t, slice.ID)

	position, second, err := svc.AppendSlice(ctx, created.ID, validSlice())
	require.NoError(t, err)
	assert.Equal(t, 1, position)
	assert.NotEqual(t, slice.ID, second.ID)

	reloaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Data, 2)
}

func TestAppendSlice_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-003"))
	require.NoError(t, err)

	t.Run("unknown geo entity", func(t *testing.T) {
		unknown := int64(999)
		req := validSlice()
		req.GeoLocation = domain.GeoLocation{Type: domain.GeoLevelProvince, ReferenceID: &unknown}
		_, _, err := svc.AppendSlice(ctx, created.ID, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("missing reference id", func(t *testing.T) {
		req := validSlice()
		req.GeoLocation = domain.GeoLocation{Type: domain.GeoLevelProvince}
		_, _, err := svc.AppendSlice(ctx, created.ID, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("reference id forbidden for Global", func(t *testing.T) {
		ref := provinceID
		req := validSlice()
		req.GeoLocation = domain.GeoLocation{Type: domain.GeoLevelGlobal, ReferenceID: &ref}
		_, _, err := svc.AppendSlice(ctx, created.ID, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("bad age range", func(t *testing.T) {
		req := validSlice()
		req.AgeRange = "0-99"
		_, _, err := svc.AppendSlice(ctx, created.ID, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("bad gender", func(t *testing.T) {
		req := validSlice()
		req.Gender = "inconnu"
		_, _, err := svc.AppendSlice(ctx, created.ID, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("ref year out of range", func(t *testing.T) {
		year := 1800
		req := validSlice()
		req.RefYear = &year
		_, _, err := svc.AppendSlice(ctx, created.ID, req)
		assertCoded(t, err, http.StatusBadRequest)
	})

	t.Run("unknown indicator", func(t *testing.T) {
		_, _, err := svc.AppendSlice(ctx, 9999, validSlice())
		assertCoded(t, err, http.StatusNotFound)
	})
}

func TestUpdateSlice_KeepsIdentity(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-004"))
	require.NoError(t, err)

	_, slice, err := svc.AppendSlice(ctx, created.ID, validSlice())
	require.NoError(t, err)

	changed := validSlice()
	changed.Gender = domain.GenderFemale
	require.NoError(t, svc.UpdateSlice(ctx, created.ID, 0, changed))

	reloaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, slice.ID, reloaded.Data[0].ID)
	assert.Equal(t, domain.GenderFemale, reloaded.Data[0].Gender)
}

func TestRemoveSlice_ReindexesFollowups(t *testing.T) {
	svc, st := newService(t)
	followupService := followup.NewService(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-005"))
	require.NoError(t, err)

	_, _, err = svc.AppendSlice(ctx, created.ID, validSlice())
	require.NoError(t, err)
	ref := provinceID
	provSlice := validSlice()
	provSlice.GeoLocation = domain.GeoLocation{Type: domain.GeoLevelProvince, ReferenceID: &ref}
	_, _, err = svc.AppendSlice(ctx, created.ID, provSlice)
	require.NoError(t, err)

	_, err = followupService.Create(ctx, created.ID, &dto.CreateFollowupRequest{DataIndex: 0, Year: 2020, Value: 100})
	require.NoError(t, err)
	_, err = followupService.Create(ctx, created.ID, &dto.CreateFollowupRequest{DataIndex: 0, Year: 2021, Value: 110})
	require.NoError(t, err)
	surviving, err := followupService.Create(ctx, created.ID, &dto.CreateFollowupRequest{DataIndex: 1, Year: 2020, Value: 40})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveSlice(ctx, created.ID, 0))

	reloaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Data, 1)
	assert.Equal(t, domain.GeoLevelProvince, reloaded.Data[0].GeoLocation.Type)

	// les followups de la tranche supprimée disparaissent, les autres
	// sont réindexés vers le bas
	remaining, err := followupService.List(ctx, store.ListFollowupsOpts{IndicatorID: created.ID})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, surviving.ID, remaining[0].ID)
	assert.Equal(t, 0, remaining[0].DataIndex)

	t.Run("repeated removal applies the same policy", func(t *testing.T) {
		require.NoError(t, svc.RemoveSlice(ctx, created.ID, 0))

		reloaded, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.Data)

		remaining, err := followupService.List(ctx, store.ListFollowupsOpts{IndicatorID: created.ID})
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}

func TestRemoveSlice_OutOfBounds(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-006"))
	require.NoError(t, err)

	err = svc.RemoveSlice(ctx, created.ID, 0)
	assertCoded(t, err, http.StatusUnprocessableEntity)
}

func TestDelete_Cascades(t *testing.T) {
	svc, st := newService(t)
	followupService := followup.NewService(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest("EDU-007"))
	require.NoError(t, err)
	_, _, err = svc.AppendSlice(ctx, created.ID, validSlice())
	require.NoError(t, err)
	fu, err := followupService.Create(ctx, created.ID, &dto.CreateFollowupRequest{DataIndex: 0, Year: 2020, Value: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assertCoded(t, err, http.StatusNotFound)
	_, err = followupService.Get(ctx, fu.ID)
	assertCoded(t, err, http.StatusNotFound)
}
