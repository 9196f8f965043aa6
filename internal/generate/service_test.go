package generate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/models"
	"quiz-portal/internal/quiz"
	"quiz-portal/pkg/database"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

type recorder struct {
	events []string
}

func (r *recorder) BroadcastMessage(room, msgType string, _ interface{}) {
	r.events = append(r.events, room+":"+msgType)
}

const generatedReply = "Here you go:\n```json\n[" +
	`{"questionText":"2+2?","correctChoice":"4","incorrectChoices":["3","5","22"],"explanation":"Addition."},` +
	`{"questionText":"Broken","correctChoice":"x","incorrectChoices":["x","y","z"]},` +
	`{"questionText":"3*3?","correctChoice":"9","incorrectChoices":["6","33","12"],"explanation":"Multiplication."}` +
	"]\n```\nGood luck!"

func newQuizService(t *testing.T) (*quiz.Service, *models.QuizGroup) {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := quiz.NewService(quiz.NewRepository(db), nil)
	group, err := svc.CreateGroup(context.Background(), quiz.GroupInput{Name: "Arithmetic"}, "admin")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	return svc, group
}

func TestGenerateStoresPendingQuestions(t *testing.T) {
	questions, group := newQuizService(t)
	gen := &fakeGenerator{reply: generatedReply}
	events := &recorder{}
	svc := NewService(gen, questions, events)

	result, err := svc.Generate(context.Background(), group.GroupID, Request{Count: 5, Topic: "times tables"}, "admin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Questions) != 2 || result.Skipped != 1 {
		t.Fatalf("expected 2 stored and 1 skipped, got %d/%d", len(result.Questions), result.Skipped)
	}
	for _, q := range result.Questions {
		if q.Type != models.QuestionTypeAuto || q.Status != models.QuestionStatusPending {
			t.Fatalf("expected auto pending question, got %s/%s", q.Type, q.Status)
		}
	}
	if !strings.Contains(gen.prompt, "times tables") || !strings.Contains(gen.prompt, "Write 5") {
		t.Fatalf("unexpected prompt %q", gen.prompt)
	}
	if len(events.events) != 1 || events.events[0] != group.GroupID+":"+EventQuestionsGenerated {
		t.Fatalf("expected broadcast, got %v", events.events)
	}

	pending, _ := questions.ListQuestions(context.Background(), group.GroupID, models.QuestionStatusPending)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending questions stored, got %d", len(pending))
	}
}

func TestGenerateTrimsToRequestedCount(t *testing.T) {
	questions, group := newQuizService(t)
	svc := NewService(&fakeGenerator{reply: generatedReply}, questions, nil)

	result, err := svc.Generate(context.Background(), group.GroupID, Request{Count: 1}, "admin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
}

func TestGenerateFailures(t *testing.T) {
	questions, group := newQuizService(t)
	ctx := context.Background()

	_, err := NewService(nil, questions, nil).Generate(ctx, group.GroupID, Request{Count: 1}, "admin")
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a generator, got %v", err)
	}

	_, err = NewService(&fakeGenerator{err: errors.New("upstream down")}, questions, nil).Generate(ctx, group.GroupID, Request{Count: 1}, "admin")
	if err == nil || errors.As(err, &appErr) {
		t.Fatalf("expected an internal error, got %v", err)
	}

	_, err = NewService(&fakeGenerator{reply: "no json here"}, questions, nil).Generate(ctx, group.GroupID, Request{Count: 1}, "admin")
	if err == nil {
		t.Fatalf("expected parse failure")
	}

	_, err = NewService(&fakeGenerator{reply: generatedReply}, questions, nil).Generate(ctx, "missing", Request{Count: 1}, "admin")
	if !errors.As(err, &appErr) || appErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown group, got %v", err)
	}
}

func TestGenerateRoute(t *testing.T) {
	questions, group := newQuizService(t)
	h := NewHandler(NewService(&fakeGenerator{reply: generatedReply}, questions, nil))
	router := mux.NewRouter()
	router.HandleFunc("/api/groups/{groupId}/questions/generate", h.Generate).Methods(http.MethodPost)

	path := "/api/groups/" + group.GroupID + "/questions/generate"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"count":11}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for count above 10, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"count":3}`)))
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"skipped":1`) {
		t.Fatalf("expected 201 with one skipped item, got %d %s", rec.Code, rec.Body.String())
	}
}
