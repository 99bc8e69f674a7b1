package contact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodorder-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
)

func TestSubmitAndList(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, SubmitRequest{Name: "Meera", Email: "Meera@Example.com", Message: "Loved the paneer!"}))
	require.NoError(t, svc.Submit(ctx, SubmitRequest{Name: "Karan", Email: "k@example.com", Message: "Late delivery today"}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Karan", list[0].Name)
	assert.Equal(t, "meera@example.com", list[1].Email)
}

func TestSubmitRejectsBlankFields(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)), nil)
	require.NoError(t, err)

	err = svc.Submit(context.Background(), SubmitRequest{Name: "  ", Email: "a@b.co", Message: "hello there"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
