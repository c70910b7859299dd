package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportInput struct {
	Title        string `json:"title" binding:"required,max=255"`
	Priority     string `json:"priority" binding:"required,oneof=low medium high"`
	Email        string `json:"email" binding:"omitempty,email"`
	DateReported string `json:"date_reported" binding:"required,datetime_ymdhis"`
	Household    int    `json:"household_size" binding:"gte=1"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

func TestFieldsUsesJSONNames(t *testing.T) {
	v := newValidate()
	err := v.Struct(reportInput{Priority: "urgent", Email: "nope", DateReported: "2025-01-02"})
	require.Error(t, err)

	fields := Fields(err)
	assert.Equal(t, "The selected priority is invalid.", fields["priority"])
	assert.Equal(t, "The email must be a valid email address.", fields["email"])
	assert.Equal(t, "The date_reported does not match the format Y-m-d H:i:s.", fields["date_reported"])
	assert.Contains(t, fields, "household_size")
	assert.Equal(t, "The title field is required.", fields["title"])
}

func TestDatetimeAcceptsTimestampLayout(t *testing.T) {
	v := newValidate()
	err := v.Struct(reportInput{Title: "Banjir", Priority: "high", DateReported: "2025-01-02 13:45:00", Household: 2})
	assert.NoError(t, err)
}

func TestFieldsTranslatesJSONTypeErrors(t *testing.T) {
	var in reportInput
	err := json.Unmarshal([]byte(`{"household_size":"four"}`), &in)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"household_size": "must be of type int"}, Fields(err))
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(errors.New("boom")))
}
