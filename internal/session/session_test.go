// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/staging"
)

// =============================================================================
// HELPERS
// =============================================================================

type fakeService struct {
	srv   *httptest.Server
	calls atomic.Int32
}

// newFakeService answers /chat/ with status and body, and serves one chart.
func newFakeService(t *testing.T, status int, body string) *fakeService {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fs := &fakeService{}

	r := gin.New()
	r.POST("/chat/", func(c *gin.Context) {
		fs.calls.Add(1)
		c.Data(status, "application/json", []byte(body))
	})
	r.GET("/charts/1.png", func(c *gin.Context) {
		var buf bytes.Buffer
		_ = png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2)))
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	})

	fs.srv = httptest.NewServer(r)
	t.Cleanup(fs.srv.Close)
	return fs
}

func stage(t *testing.T, s *Session, name, mediaType string) {
	t.Helper()
	require.Empty(t, s.StageFile(staging.FromBytes(name, mediaType, []byte("region,revenue\nnorth,42000\n"))))
}

func sendOf(t *testing.T, effects []Effect) Send {
	t.Helper()
	for _, e := range effects {
		if s, ok := e.(Send); ok {
			return s
		}
	}
	t.Fatalf("no Send effect in %#v", effects)
	return Send{}
}

// run submits question and drives the exchange to completion.
func run(t *testing.T, s *Session, client *analysis.Client, question string) []Effect {
	t.Helper()
	outcome, effects := s.Submit(question)
	require.Equal(t, OutcomeSent, outcome)
	send := sendOf(t, effects)

	reply, err := Perform(context.Background(), client, send.Exchange)
	return s.Resolve(send.Exchange.PlaceholderID, reply, err)
}

func messages(s *Session) []model.Message {
	return s.Conversation().Messages()
}

// =============================================================================
// SUBMIT PRECONDITIONS
// =============================================================================

func TestSubmit_BlankQuestionIgnored(t *testing.T) {
	fs := newFakeService(t, http.StatusOK, `{}`)
	s := New(fs.srv.URL)
	stage(t, s, "sales.csv", "text/csv")

	for _, q := range []string{"", "   ", "\n\t "} {
		outcome, effects := s.Submit(q)
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Empty(t, effects)
	}
	assert.Equal(t, 1, s.Conversation().Len())
	assert.Equal(t, int32(0), fs.calls.Load())
}

func TestSubmit_NoFileRejected(t *testing.T) {
	s := New("http://localhost:8000")

	outcome, effects := s.Submit("What is the total revenue?")
	assert.Equal(t, OutcomeRejected, outcome)
	require.Len(t, effects, 1)
	assert.Equal(t, Notice{Text: NoFileText, Blocking: true}, effects[0])
	assert.Equal(t, 1, s.Conversation().Len())
}

func TestSubmit_BlankCheckedBeforeFile(t *testing.T) {
	s := New("http://localhost:8000")
	outcome, effects := s.Submit("  ")
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, effects)
}

func TestSubmit_BusyWhilePending(t *testing.T) {
	s := New("http://localhost:8000")
	stage(t, s, "sales.csv", "text/csv")

	outcome, effects := s.Submit("first")
	require.Equal(t, OutcomeSent, outcome)
	first := sendOf(t, effects)
	lenAfterFirst := s.Conversation().Len()

	outcome, effects = s.Submit("second")
	assert.Equal(t, OutcomeBusy, outcome)
	require.Len(t, effects, 1)
	notice := effects[0].(Notice)
	assert.False(t, notice.Blocking)
	assert.Equal(t, lenAfterFirst, s.Conversation().Len())
	assert.Equal(t, 1, s.Conversation().PendingCount())

	id, ok := s.Pending()
	assert.True(t, ok)
	assert.Equal(t, first.Exchange.PlaceholderID, id)
}

func TestSubmit_AppendsRawQuestionSendsTrimmed(t *testing.T) {
	s := New("http://localhost:8000")
	stage(t, s, "sales.csv", "text/csv")

	_, effects := s.Submit("  What is the total revenue?  ")
	send := sendOf(t, effects)
	assert.Contains(t, effects, Effect(ClearInput{}))
	assert.Equal(t, "What is the total revenue?", send.Exchange.Question)
	assert.Equal(t, "sales.csv", send.Exchange.File.Name)

	msgs := messages(s)
	require.Len(t, msgs, 3)
	assert.Equal(t, model.SenderUser, msgs[1].Sender)
	assert.Equal(t, "  What is the total revenue?  ", msgs[1].Text)
	assert.True(t, msgs[2].IsPending())
	assert.Equal(t, send.Exchange.PlaceholderID, msgs[2].ID)
}

// =============================================================================
// STAGING
// =============================================================================

func TestStageFile_InvalidRaisesBlockingNotice(t *testing.T) {
	s := New("http://localhost:8000")
	stage(t, s, "sales.csv", "text/csv")

	effects := s.StageFile(staging.FromBytes("notes.txt", "text/plain", nil))
	require.Len(t, effects, 1)
	n := effects[0].(Notice)
	assert.True(t, n.Blocking)
	assert.Contains(t, n.Text, "notes.txt")

	cur, ok := s.Stager().Current()
	require.True(t, ok)
	assert.Equal(t, "sales.csv", cur.Name)
	assert.Equal(t, 1, s.Conversation().Len())
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenario_TextAnswer(t *testing.T) {
	fs := newFakeService(t, http.StatusOK, `{"response":"Total revenue is 42000"}`)
	s := New(fs.srv.URL)
	client := analysis.NewClient(fs.srv.URL)
	stage(t, s, "sales.csv", "text/csv")

	effects := run(t, s, client, "What is the total revenue?")
	assert.Empty(t, effects)

	msgs := messages(s)
	require.Len(t, msgs, 3)
	assert.Equal(t, model.SenderUser, msgs[1].Sender)
	assert.Equal(t, "What is the total revenue?", msgs[1].Text)
	assert.Equal(t, model.SenderAgent, msgs[2].Sender)
	assert.Equal(t, model.KindText, msgs[2].Kind)
	assert.Equal(t, "Total revenue is 42000", msgs[2].Text)

	assert.Equal(t, 0, s.Conversation().PendingCount())
	_, pending := s.Pending()
	assert.False(t, pending)
	assert.True(t, s.Connected())
	assert.Equal(t, int32(1), fs.calls.Load())

	raw, ok := s.LastReply()
	require.True(t, ok)
	assert.JSONEq(t, `{"response":"Total revenue is 42000"}`, string(raw.Body))
}

func TestScenario_ChartAnswer(t *testing.T) {
	fs := newFakeService(t, http.StatusOK, `{"response":"Here is the trend","image_url":"/charts/1.png"}`)
	s := New(fs.srv.URL)
	client := analysis.NewClient(fs.srv.URL)
	stage(t, s, "data.zip", "application/zip")

	effects := run(t, s, client, "Plot trend")
	require.Len(t, effects, 1)
	load := effects[0].(LoadImage)

	last, _ := s.Conversation().Last()
	require.Equal(t, model.KindChart, last.Kind)
	assert.Equal(t, "Here is the trend", last.Caption)
	assert.Equal(t, "/charts/1.png", last.ImageRef)
	assert.Equal(t, model.LoadLoading, last.Load)
	assert.Equal(t, last.ID, load.MessageID)

	_, err := client.FetchImage(context.Background(), load.Ref)
	s.SetChartLoad(load.MessageID, err)

	last, _ = s.Conversation().Last()
	assert.Equal(t, model.LoadLoaded, last.Load)
	assert.Equal(t, 3, s.Conversation().Len())
}

func TestScenario_ChartImageFails(t *testing.T) {
	fs := newFakeService(t, http.StatusOK, `{"image_url":"/charts/missing.png"}`)
	s := New(fs.srv.URL)
	client := analysis.NewClient(fs.srv.URL)
	stage(t, s, "data.zip", "")

	effects := run(t, s, client, "Plot trend")
	load := effects[0].(LoadImage)
	before := messages(s)

	_, err := client.FetchImage(context.Background(), load.Ref)
	require.Error(t, err)
	s.SetChartLoad(load.MessageID, err)

	after := messages(s)
	require.Len(t, after, len(before))
	last := after[len(after)-1]
	assert.Equal(t, DefaultChartCaption, last.Caption)
	assert.Equal(t, model.LoadFailed, last.Load)
	// The exchange itself succeeded.
	assert.True(t, s.Connected())
}

func TestScenario_ServerErrorDetail(t *testing.T) {
	fs := newFakeService(t, http.StatusInternalServerError, `{"detail":"parse failure"}`)
	s := New(fs.srv.URL)
	stage(t, s, "sales.csv", "text/csv")

	run(t, s, analysis.NewClient(fs.srv.URL), "Total?")

	last, _ := s.Conversation().Last()
	assert.Equal(t, model.KindText, last.Kind)
	assert.Contains(t, last.Text, "parse failure")
	assert.Equal(t, "❌ Error: parse failure", last.Text)
	assert.Equal(t, 0, s.Conversation().PendingCount())
}

func TestScenario_TransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()
	ln.Close()

	s := New(base)
	stage(t, s, "sales.csv", "text/csv")
	run(t, s, analysis.NewClient(base), "Total?")

	last, _ := s.Conversation().Last()
	assert.Equal(t, ConnectionErrorText(base), last.Text)
	assert.Contains(t, last.Text, "Connection error")
	assert.False(t, s.Connected())
	assert.Equal(t, 0, s.Conversation().PendingCount())

	// A later submit is still allowed.
	outcome, _ := s.Submit("again?")
	assert.Equal(t, OutcomeSent, outcome)
}

func TestScenario_SequentialExchanges(t *testing.T) {
	fs := newFakeService(t, http.StatusOK, `{"response":"ok"}`)
	s := New(fs.srv.URL)
	client := analysis.NewClient(fs.srv.URL)
	stage(t, s, "sales.csv", "text/csv")

	for i := 0; i < 3; i++ {
		run(t, s, client, "q")
	}
	// greeting + 3 * (user + agent)
	assert.Equal(t, 7, s.Conversation().Len())
	assert.Equal(t, 0, s.Conversation().PendingCount())
}

// =============================================================================
// RESOLVE EDGE CASES
// =============================================================================

func TestResolve_StaleAfterNewConversation(t *testing.T) {
	s := New("http://localhost:8000")
	stage(t, s, "sales.csv", "text/csv")

	_, effects := s.Submit("q")
	send := sendOf(t, effects)

	assert.Equal(t, []Effect{ClearInput{}}, s.NewConversation())
	assert.False(t, s.Stager().HasFile())
	assert.Equal(t, 1, s.Conversation().Len())

	reply := &analysis.Reply{Status: 200, Body: []byte(`{"response":"late"}`)}
	assert.Nil(t, s.Resolve(send.Exchange.PlaceholderID, reply, nil))
	assert.Equal(t, 1, s.Conversation().Len())
	last, _ := s.Conversation().Last()
	assert.Equal(t, model.GreetingText, last.Text)
}

func TestResolve_OnlyOnce(t *testing.T) {
	s := New("http://localhost:8000")
	stage(t, s, "sales.csv", "text/csv")
	_, effects := s.Submit("q")
	id := sendOf(t, effects).Exchange.PlaceholderID

	reply := &analysis.Reply{Status: 200, Body: []byte(`{"response":"one"}`)}
	s.Resolve(id, reply, nil)
	s.Resolve(id, reply, nil)

	assert.Equal(t, 3, s.Conversation().Len())
}

func TestResolve_LocalErrorKeepsConnectivity(t *testing.T) {
	s := New("http://localhost:8000")
	stage(t, s, "sales.csv", "text/csv")
	_, effects := s.Submit("q")
	id := sendOf(t, effects).Exchange.PlaceholderID

	s.Resolve(id, nil, errors.New("could not read sales.csv: permission denied"))

	last, _ := s.Conversation().Last()
	assert.Equal(t, "❌ Error: could not read sales.csv: permission denied", last.Text)
	assert.True(t, s.Connected())
}

func TestPerform_OpenFailure(t *testing.T) {
	ex := Exchange{File: staging.StagedFile{Name: "gone.csv"}, Question: "q"}
	_, err := Perform(context.Background(), analysis.NewClient("http://localhost:1"), ex)
	require.Error(t, err)
	assert.False(t, analysis.IsTransport(err))
	assert.Contains(t, err.Error(), "gone.csv")
}

func TestRecordProbe(t *testing.T) {
	s := New("http://localhost:8000")
	s.RecordProbe(errors.New("refused"))
	assert.False(t, s.Connected())
	s.RecordProbe(nil)
	assert.True(t, s.Connected())
}

func TestSession_Identity(t *testing.T) {
	a, b := New("x"), New("x")
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Len(t, a.ID(), 36)
}
