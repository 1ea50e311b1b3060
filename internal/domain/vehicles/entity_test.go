package vehicles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterInput_Normalize(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	in, err := RegisterInput{Make: " Toyota ", Model: "Corolla ", Year: 2019}.Normalize(now)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", in.Make)
	assert.Equal(t, "Corolla", in.Model)

	_, err = RegisterInput{Model: "Corolla"}.Normalize(now)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = RegisterInput{Make: "Toyota", Model: " "}.Normalize(now)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = RegisterInput{Make: "Toyota", Model: "Corolla", Year: 2028}.Normalize(now)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = RegisterInput{Make: "Toyota", Model: "Corolla", Year: 2027}.Normalize(now)
	assert.NoError(t, err)
}
