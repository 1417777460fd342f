package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailydish/recipe-feed/internal/command"
)

type fakeProcessReplyCmd struct {
	applied int
	err     error
	req     command.ProcessRatingReplyRequest
}

func (f *fakeProcessReplyCmd) Execute(
	_ context.Context, req command.ProcessRatingReplyRequest,
) (int, error) {
	f.req = req
	return f.applied, f.err
}

func TestReplySubmit_ServeHTTP(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		applied     int
		wantStatus  int
		wantApplied int
	}{
		{
			name:        "ratings applied",
			body:        `{"body":"Recipe 1: 4","message_id":"<abc@dailydish>"}`,
			applied:     1,
			wantStatus:  http.StatusOK,
			wantApplied: 1,
		},
		{
			name:        "no ratings in reply",
			body:        `{"body":"thanks!"}`,
			applied:     0,
			wantStatus:  http.StatusOK,
			wantApplied: 0,
		},
		{
			name:       "malformed JSON",
			body:       `{"body":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body field",
			body:       `{"message_id":"<abc@dailydish>"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &fakeProcessReplyCmd{applied: tc.applied}
			ctrl := ReplySubmit{ProcessCmd: cmd}

			req := httptest.NewRequest(http.MethodPost, "/v1/replies",
				strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			ctrl.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var resp ReplySubmitResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.wantApplied, resp.RatingsApplied)
			}
		})
	}
}

func TestReplySubmit_PassesMessageIDThrough(t *testing.T) {
	cmd := &fakeProcessReplyCmd{applied: 1}
	ctrl := ReplySubmit{ProcessCmd: cmd}

	req := httptest.NewRequest(http.MethodPost, "/v1/replies",
		strings.NewReader(`{"body":"Recipe 1: 5","message_id":"<xyz@dailydish>"}`))
	rec := httptest.NewRecorder()

	ctrl.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<xyz@dailydish>", cmd.req.MessageID)
	assert.Equal(t, "Recipe 1: 5", cmd.req.Body)
}
