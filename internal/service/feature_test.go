package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dazuba/feature-votes/internal/apierrors"
	"github.com/dazuba/feature-votes/internal/model"
	"github.com/dazuba/feature-votes/internal/testutil"
)

// MockFeatureStore mocks the FeatureStore interface
type MockFeatureStore struct {
	mock.Mock
}

func (m *MockFeatureStore) Create(ctx context.Context, feature model.Feature) (model.Feature, error) {
	args := m.Called(ctx, feature)
	return args.Get(0).(model.Feature), args.Error(1)
}

func (m *MockFeatureStore) GetByID(ctx context.Context, id uuid.UUID) (model.Feature, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Feature), args.Error(1)
}

func (m *MockFeatureStore) List(ctx context.Context, skip, limit int) ([]model.FeatureTally, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]model.FeatureTally), args.Error(1)
}

func (m *MockFeatureStore) ListTop(ctx context.Context, limit int) ([]model.FeatureTally, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.FeatureTally), args.Error(1)
}

func (m *MockFeatureStore) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch model.FeaturePatch) (model.Feature, error) {
	args := m.Called(ctx, id, ownerID, patch)
	return args.Get(0).(model.Feature), args.Error(1)
}

func (m *MockFeatureStore) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// MockVoteStore mocks the VoteStore interface
type MockVoteStore struct {
	mock.Mock
}

func (m *MockVoteStore) Upsert(ctx context.Context, vote model.Vote) (model.Vote, error) {
	args := m.Called(ctx, vote)
	return args.Get(0).(model.Vote), args.Error(1)
}

func (m *MockVoteStore) Tally(ctx context.Context, featureID uuid.UUID) (int64, error) {
	args := m.Called(ctx, featureID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoteStore) GetByFeatureAndUser(ctx context.Context, featureID, userID uuid.UUID) (model.Vote, error) {
	args := m.Called(ctx, featureID, userID)
	return args.Get(0).(model.Vote), args.Error(1)
}

func newFeatureService(features *MockFeatureStore, votes *MockVoteStore, users *MockUserStore) *Feature {
	return NewFeature(features, votes, users, testutil.NewNoopLogger())
}

func TestFeature_Create_Success(t *testing.T) {
	ownerID := uuid.New()
	features := &MockFeatureStore{}
	users := &MockUserStore{}

	users.On("GetByID", mock.Anything, ownerID).Return(model.User{ID: ownerID}, nil)
	features.On("Create", mock.Anything, mock.MatchedBy(func(f model.Feature) bool {
		return f.Title == "Dark mode" && f.OwnerID == ownerID
	})).Return(model.Feature{ID: uuid.New(), Title: "Dark mode", OwnerID: ownerID}, nil)

	svc := newFeatureService(features, &MockVoteStore{}, users)

	ft, err := svc.Create(context.Background(), model.CreateFeatureParams{
		OwnerID: ownerID,
		Title:   "Dark mode",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dark mode", ft.Feature.Title)
	assert.EqualValues(t, 0, ft.Tally)
}

func TestFeature_Create_EmptyTitle(t *testing.T) {
	features := &MockFeatureStore{}
	svc := newFeatureService(features, &MockVoteStore{}, &MockUserStore{})

	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), model.CreateFeatureParams{
			OwnerID: uuid.New(),
			Title:   title,
		})
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.CodeValidationError, apiErr.Code)
	}
	features.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFeature_Get_DecoratesTally(t *testing.T) {
	featureID := uuid.New()
	features := &MockFeatureStore{}
	votes := &MockVoteStore{}

	features.On("GetByID", mock.Anything, featureID).Return(model.Feature{ID: featureID, Title: "t"}, nil)
	votes.On("Tally", mock.Anything, featureID).Return(int64(3), nil)

	svc := newFeatureService(features, votes, &MockUserStore{})

	ft, err := svc.Get(context.Background(), featureID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, ft.Tally)
}

func TestFeature_Get_NotFound(t *testing.T) {
	featureID := uuid.New()
	features := &MockFeatureStore{}
	features.On("GetByID", mock.Anything, featureID).Return(model.Feature{}, model.ErrNotFound)

	svc := newFeatureService(features, &MockVoteStore{}, &MockUserStore{})

	_, err := svc.Get(context.Background(), featureID)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeNotFound, apiErr.Code)
}

func TestFeature_UpdateAndDelete_MergedNotFound(t *testing.T) {
	featureID := uuid.New()
	actorID := uuid.New()
	features := &MockFeatureStore{}

	// The store cannot say whether the feature was absent or owned by
	// someone else, and neither can the service.
	features.On("UpdateOwned", mock.Anything, featureID, actorID, mock.Anything).Return(model.Feature{}, model.ErrNotFound)
	features.On("DeleteOwned", mock.Anything, featureID, actorID).Return(model.ErrNotFound)

	svc := newFeatureService(features, &MockVoteStore{}, &MockUserStore{})

	title := "New title"
	_, errUpdate := svc.Update(context.Background(), featureID, actorID, model.FeaturePatch{Title: &title})
	errDelete := svc.Delete(context.Background(), featureID, actorID)

	for _, err := range []error{errUpdate, errDelete} {
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.CodeNotFoundOrForbidden, apiErr.Code)
	}
}

func TestFeature_Update_EmptyTitleRejected(t *testing.T) {
	features := &MockFeatureStore{}
	svc := newFeatureService(features, &MockVoteStore{}, &MockUserStore{})

	title := " "
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), model.FeaturePatch{Title: &title})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeValidationError, apiErr.Code)
	features.AssertNotCalled(t, "UpdateOwned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFeature_CastVote_InvalidValue(t *testing.T) {
	features := &MockFeatureStore{}
	votes := &MockVoteStore{}
	svc := newFeatureService(features, votes, &MockUserStore{})

	for _, value := range []int{0, 2, -2, 100} {
		_, err := svc.CastVote(context.Background(), uuid.New(), uuid.New(), value)
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.CodeValidationError, apiErr.Code)
	}

	// Rejected before any storage access.
	features.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	votes.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestFeature_CastVote_FeatureMissing(t *testing.T) {
	featureID := uuid.New()
	features := &MockFeatureStore{}
	votes := &MockVoteStore{}

	features.On("GetByID", mock.Anything, featureID).Return(model.Feature{}, model.ErrNotFound)

	svc := newFeatureService(features, votes, &MockUserStore{})

	_, err := svc.CastVote(context.Background(), featureID, uuid.New(), model.VoteUp)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeNotFound, apiErr.Code)
	votes.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestFeature_CastVote_FeatureDeletedMidFlight(t *testing.T) {
	featureID := uuid.New()
	features := &MockFeatureStore{}
	votes := &MockVoteStore{}

	// The feature passes the existence check but is gone by the time the
	// vote lands.
	features.On("GetByID", mock.Anything, featureID).Return(model.Feature{ID: featureID}, nil)
	votes.On("Upsert", mock.Anything, mock.Anything).Return(model.Vote{}, model.ErrNotFound)

	svc := newFeatureService(features, votes, &MockUserStore{})

	_, err := svc.CastVote(context.Background(), featureID, uuid.New(), model.VoteUp)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeNotFound, apiErr.Code)
}

func TestFeature_CastVote_Upserts(t *testing.T) {
	featureID := uuid.New()
	userID := uuid.New()
	voteID := uuid.New()
	features := &MockFeatureStore{}
	votes := &MockVoteStore{}

	features.On("GetByID", mock.Anything, featureID).Return(model.Feature{ID: featureID, OwnerID: userID}, nil)
	votes.On("Upsert", mock.Anything, mock.MatchedBy(func(v model.Vote) bool {
		return v.FeatureID == featureID && v.UserID == userID && v.Value == model.VoteDown
	})).Return(model.Vote{ID: voteID, Value: model.VoteDown, FeatureID: featureID, UserID: userID}, nil)

	svc := newFeatureService(features, votes, &MockUserStore{})

	// The owner voting on their own feature is allowed.
	vote, err := svc.CastVote(context.Background(), featureID, userID, model.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, voteID, vote.ID)
	votes.AssertExpectations(t)
}

func TestFeature_Top_DefaultsLimit(t *testing.T) {
	features := &MockFeatureStore{}
	features.On("ListTop", mock.Anything, 10).Return([]model.FeatureTally{}, nil)

	svc := newFeatureService(features, &MockVoteStore{}, &MockUserStore{})

	_, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	features.AssertExpectations(t)
}

func TestFeature_List_NormalizesPaging(t *testing.T) {
	features := &MockFeatureStore{}
	features.On("List", mock.Anything, 0, 100).Return([]model.FeatureTally{}, nil)

	svc := newFeatureService(features, &MockVoteStore{}, &MockUserStore{})

	_, err := svc.List(context.Background(), -5, 0)
	require.NoError(t, err)
	features.AssertExpectations(t)
}

func TestFeature_UserVote_Absent(t *testing.T) {
	featureID := uuid.New()
	userID := uuid.New()
	votes := &MockVoteStore{}
	votes.On("GetByFeatureAndUser", mock.Anything, featureID, userID).Return(model.Vote{}, model.ErrNotFound)

	svc := newFeatureService(&MockFeatureStore{}, votes, &MockUserStore{})

	_, err := svc.UserVote(context.Background(), featureID, userID)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeNotFound, apiErr.Code)
}
