package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/holocard-api/internal/domain/apperr"
	"github.com/oksasatya/holocard-api/internal/infrastructure/memory"
)

func newProfileService(t *testing.T) (*ProfileService, *memory.Store, *fakeIndexer) {
	t.Helper()
	store := memory.NewStore()
	logger, _ := nullLogger()
	cards := NewCardService(store.Cards(), store.Users(), logger)
	svc := NewProfileService(store.Users(), cards, logger)
	idx := &fakeIndexer{}
	svc.Indexer = idx
	return svc, store, idx
}

func validInput() ProfileInput {
	return ProfileInput{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Title:    "Analyst",
		Website:  "https://ada.example",
		LinkedIn: "in/ada",
	}
}

func TestProfileUpsert_CreatesCard(t *testing.T) {
	svc, store, idx := newProfileService(t)
	seedUser(t, store, "u1", "old@example.com")

	p, err := svc.Upsert(context.Background(), "u1", validInput())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", p.User.Name)
	assert.Equal(t, "ada@example.com", p.User.Email)
	require.NotNil(t, p.Card)
	assert.Equal(t, "Analyst", p.Card.Metadata.Title)
	assert.Equal(t, "in/ada", p.Card.Metadata.Social["linkedin"])
	assert.Equal(t, "", p.Card.Metadata.Social["twitter"])
	assert.Equal(t, 1, store.CardCount("u1"))

	require.Len(t, idx.docs, 1)
	assert.Equal(t, p.Card.PublicID, idx.docs[0].PublicID)
	assert.Equal(t, "Ada Lovelace", idx.docs[0].Name)
}

func TestProfileUpsert_KeepsCardIdentity(t *testing.T) {
	svc, store, _ := newProfileService(t)
	seedUser(t, store, "u1", "u1@example.com")
	ctx := context.Background()

	first, err := svc.Upsert(ctx, "u1", validInput())
	require.NoError(t, err)
	in := validInput()
	in.Bio = "Poet of science"
	second, err := svc.Upsert(ctx, "u1", in)
	require.NoError(t, err)

	assert.Equal(t, first.Card.ID, second.Card.ID)
	assert.Equal(t, first.Card.PublicID, second.Card.PublicID)
	assert.Equal(t, "Poet of science", second.Card.Metadata.Bio)
}

func TestProfileUpsert_Validation(t *testing.T) {
	svc, store, _ := newProfileService(t)
	seedUser(t, store, "u1", "u1@example.com")

	in := ProfileInput{
		Name:    "  ",
		Email:   "not-an-email",
		Bio:     strings.Repeat("b", 501),
		Phone:   strings.Repeat("1", 21),
		Website: "nope",
	}
	_, err := svc.Upsert(context.Background(), "u1", in)
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	for _, f := range []string{"name", "email", "bio", "phone", "website"} {
		assert.Contains(t, ve.Fields, f)
	}
	assert.Equal(t, 0, store.CardCount("u1"))
}

func TestProfileUpsert_EmailTakenIsConflict(t *testing.T) {
	svc, store, _ := newProfileService(t)
	seedUser(t, store, "u1", "u1@example.com")
	seedUser(t, store, "u2", "ada@example.com")

	_, err := svc.Upsert(context.Background(), "u1", validInput())
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestProfileUpsert_IndexFailureIsIgnored(t *testing.T) {
	svc, store, idx := newProfileService(t)
	seedUser(t, store, "u1", "u1@example.com")
	idx.err = errStorageDown

	_, err := svc.Upsert(context.Background(), "u1", validInput())
	assert.NoError(t, err)
}

func TestProfileGet(t *testing.T) {
	svc, store, _ := newProfileService(t)
	seedUser(t, store, "u1", "u1@example.com")
	ctx := context.Background()

	p, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p.Card)

	_, err = svc.Upsert(ctx, "u1", validInput())
	require.NoError(t, err)
	p, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, p.Card)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
