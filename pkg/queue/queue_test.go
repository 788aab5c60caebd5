package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobWrapsPayload(t *testing.T) {
	job, err := NewJob(JobTypeEmail, EmailPayload{
		RecipientEmail: "press@example.com",
		Subject:        "New tender",
		Body:           "<p>hi</p>",
		MessageGroupID: "tender.published",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, JobTypeEmail, job.Type)
	assert.Zero(t, job.Attempt)

	var payload EmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "press@example.com", payload.RecipientEmail)
	assert.Equal(t, "tender.published", payload.MessageGroupID)
}
