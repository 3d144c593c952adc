package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"workbook_coach_backend/internal/config"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/util"
)

const initialResponse = `## SUMMARY
Dependable, but holds on to work too long.

## STRENGTHS
- Follows through

## CHALLENGES
- Rarely delegates

## RECOMMENDATIONS
- Hand one recurring task to a direct report

## FOLLOW-UP WORKSHEETS
Delegation & Empowerment`

const workbookFollowupResponse = `## OVERALL PROGRESS SUMMARY
Delegation improved noticeably.

## IMPLEMENTATION PROGRESS ANALYSIS
Now hands off weekly reporting to the team.

## CROSS-PILLAR INTEGRATION
Delegation freed time for strategy.

## IMPLEMENTATION BARRIERS
Still re-checks delegated work.

## COMPREHENSIVE ADJUSTMENT PLAN
Agree check-in points up front.

## NEXT FOCUS AREAS
Move on to Coaching & Development.

## COACHING SUPPORT ASSESSMENT
Schedule the Coaching & Development follow-up in 90 days.`

type fakeLock struct {
	busy     bool
	acquired []string
	released int

	// runs once before the lock is granted, standing in for the previous holder
	beforeGrant func()
}

func (l *fakeLock) Acquire(ctx context.Context, key string) (func(), bool, error) {
	if l.busy {
		return nil, false, nil
	}
	if fn := l.beforeGrant; fn != nil {
		l.beforeGrant = nil
		fn()
	}
	l.acquired = append(l.acquired, key)
	return func() { l.released++ }, true, nil
}

type harness struct {
	user        *model.User
	users       *repository.UserRepository
	lm          *fakeModel
	archiveDir  string
	submissions *SubmissionService
	followups   *FollowupService
	recs        *RecommendationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newTestDB(t)

	users := repository.NewUserRepository(db)
	user := &model.User{Name: "Alex", Email: "alex@example.com", Password: "x", Role: model.Client}
	if err := users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dir := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}}
	archive := NewDiagnosisArchive(storage)

	lm := &fakeModel{text: initialResponse}
	gen := NewDiagnosisGenerator(lm, nil)
	worksheets := NewWorksheetService(repository.NewWorksheetRepository(db), nil)
	subRepo := repository.NewSubmissionRepository(db)
	folRepo := repository.NewFollowupRepository(db)

	subs := NewSubmissionService(subRepo, users, worksheets, gen, archive, nil)
	fols := NewFollowupService(folRepo, subs, worksheets, NewContextBuilder(users, worksheets.Lookup), gen, archive, nil)
	recs := NewRecommendationService(subRepo, folRepo, worksheets, NewTriggerEngine(DefaultTriggerPolicy()))

	return &harness{
		user:        user,
		users:       users,
		lm:          lm,
		archiveDir:  dir,
		submissions: subs,
		followups:   fols,
		recs:        recs,
	}
}

func (h *harness) submitWorkbook(t *testing.T, answers model.Answers) *model.Submission {
	t.Helper()
	requested := true
	draft, err := h.submissions.SaveDraft(context.Background(), h.user.ID, DraftRequest{
		WorksheetID:       model.WorkbookID,
		Answers:           answers,
		FollowupRequested: &requested,
	})
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	sub, err := h.submissions.Submit(context.Background(), h.user.ID, draft.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return sub
}

func TestSubmissionService_DraftMerge(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{
		WorksheetID: model.WorkbookID,
		Answers:     answersOf("p7-delegation-rating", 1, "notes", "busy quarter"),
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{
		WorksheetID: model.WorkbookID,
		Answers:     answersOf("p7-delegation-rating", 2, "vision", "clearer"),
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same draft, got %s and %s", first.ID, second.ID)
	}
	if second.Kind != model.KindWorkbook || second.Status != model.SubmissionDraft {
		t.Fatalf("draft fields: %+v", second)
	}

	stored, err := h.submissions.Get(h.user.ID, second.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	answers, _ := stored.AnswerSet()
	keys := answers.Keys()
	if len(keys) != 3 || keys[0] != "p7-delegation-rating" || keys[2] != "vision" {
		t.Fatalf("merge order: %v", keys)
	}
	if v, _ := answers.Get("p7-delegation-rating"); v.Num != 2 {
		t.Fatalf("later value should win, got %v", v)
	}
}

func TestSubmissionService_UnknownAndFollowupWorksheets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{WorksheetID: "nope"}); !errors.Is(err, util.ErrWorksheetNotFound) {
		t.Fatalf("expected ErrWorksheetNotFound, got %v", err)
	}
	if _, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{WorksheetID: model.WorkbookFollowupID}); !errors.Is(err, util.ErrWorksheetNotFound) {
		t.Fatalf("follow-up worksheets cannot be drafted, got %v", err)
	}
}

func TestSubmissionService_SubmitGeneratesAndArchives(t *testing.T) {
	h := newHarness(t)
	sub := h.submitWorkbook(t, answersOf("p7-delegation-rating", 2))

	if !sub.IsSubmitted() || sub.SubmittedAt == nil || sub.DiagnosisGeneratedAt == nil {
		t.Fatalf("submission not finalised: %+v", sub)
	}
	d, err := sub.DiagnosisResult()
	if err != nil || d == nil {
		t.Fatalf("diagnosis missing: %v", err)
	}
	if len(d.FollowupWorksheets.Pillars) != 1 || d.FollowupWorksheets.Pillars[0] != "pillar7_delegation_empowerment" {
		t.Fatalf("pillars: %v", d.FollowupWorksheets.Pillars)
	}
	if !containsAll(h.lm.user, "Alex", "Leadership Workbook") {
		t.Fatalf("prompt missing client or worksheet:\n%s", h.lm.user)
	}

	path := filepath.Join(h.archiveDir, ArchiveKey(ArchiveSubmission, sub.ID))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("archive not written: %v", err)
	}
	archived, err := h.submissions.Archive.Load(context.Background(), ArchiveSubmission, sub.ID)
	if err != nil || archived.Summary != d.Summary {
		t.Fatalf("archive load: %v %+v", err, archived)
	}

	if _, err := h.submissions.Submit(context.Background(), h.user.ID, sub.ID); !errors.Is(err, util.ErrSubmissionAlreadySubmitted) {
		t.Fatalf("expected ErrSubmissionAlreadySubmitted, got %v", err)
	}
}

func TestSubmissionService_GenerationFailureKeepsSubmission(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.lm.err = errors.New("timeout")

	draft, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{WorksheetID: "pillar2_emotional_intelligence"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	sub, err := h.submissions.Submit(ctx, h.user.ID, draft.ID)
	if !errors.Is(err, util.ErrDiagnosisGenerationFailed) {
		t.Fatalf("expected ErrDiagnosisGenerationFailed, got %v", err)
	}
	if sub == nil || !sub.IsSubmitted() {
		t.Fatalf("expected submitted submission, got %+v", sub)
	}
	if d, _ := sub.DiagnosisResult(); d != nil {
		t.Fatalf("expected no diagnosis, got %+v", d)
	}

	h.lm.err = nil
	sub, err = h.submissions.RegenerateDiagnosis(ctx, h.user.ID, draft.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if d, _ := sub.DiagnosisResult(); d == nil || d.FollowupWorksheets.Followup != "pillar2_emotional_intelligence-followup" {
		t.Fatalf("regenerated diagnosis: %+v", d)
	}
}

func TestSubmissionService_RegenerateMissing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.lm.err = errors.New("upstream down")

	var ids []string
	for _, ws := range []string{"pillar2_emotional_intelligence", "pillar3_communication_mastery"} {
		draft, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{WorksheetID: ws})
		if err != nil {
			t.Fatalf("save %s: %v", ws, err)
		}
		if _, err := h.submissions.Submit(ctx, h.user.ID, draft.ID); !errors.Is(err, util.ErrDiagnosisGenerationFailed) {
			t.Fatalf("submit %s: expected generation failure, got %v", ws, err)
		}
		ids = append(ids, draft.ID)
	}

	done, err := h.submissions.RegenerateMissing(ctx, 10)
	if err != nil {
		t.Fatalf("regenerate while down: %v", err)
	}
	if done != 0 {
		t.Fatalf("expected 0 generated while the model fails, got %d", done)
	}

	h.lm.err = nil
	done, err = h.submissions.RegenerateMissing(ctx, 1)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if done != 1 {
		t.Fatalf("expected limit to cap the batch at 1, got %d", done)
	}
	done, err = h.submissions.RegenerateMissing(ctx, 10)
	if err != nil || done != 1 {
		t.Fatalf("second batch: done=%d err=%v", done, err)
	}

	for _, id := range ids {
		sub, err := h.submissions.Get(h.user.ID, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if d, _ := sub.DiagnosisResult(); d == nil {
			t.Fatalf("submission %s still has no diagnosis", id)
		}
	}
}

func TestSubmissionService_Ownership(t *testing.T) {
	h := newHarness(t)
	sub := h.submitWorkbook(t, answersOf("notes", "x"))

	if _, err := h.submissions.Get(h.user.ID+1, sub.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := h.submissions.Get(h.user.ID, "missing"); !errors.Is(err, util.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}

	viewed, err := h.submissions.MarkDiagnosisViewed(h.user.ID, sub.ID)
	if err != nil || viewed.DiagnosisViewedAt == nil {
		t.Fatalf("mark viewed: %v %+v", err, viewed)
	}
	again, err := h.submissions.MarkDiagnosisViewed(h.user.ID, sub.ID)
	if err != nil || again.DiagnosisViewedAt.Sub(*viewed.DiagnosisViewedAt).Abs() > time.Second {
		t.Fatalf("second view should keep the first timestamp: %v", err)
	}
}

func TestSubmissionService_LockBusy(t *testing.T) {
	h := newHarness(t)
	lock := &fakeLock{busy: true}
	h.submissions.Lock = lock

	draft, err := h.submissions.SaveDraft(context.Background(), h.user.ID, DraftRequest{WorksheetID: model.WorkbookID})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := h.submissions.Submit(context.Background(), h.user.ID, draft.ID); !errors.Is(err, util.ErrGenerationInProgress) {
		t.Fatalf("expected ErrGenerationInProgress, got %v", err)
	}
	if h.lm.calls != 0 {
		t.Fatalf("model called while locked")
	}
}

func TestFollowupLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	lock := &fakeLock{}
	h.followups.Lock = lock

	sub := h.submitWorkbook(t, answersOf("p7-delegation-rating", 2, "notes", "n/a"))

	recs, err := h.recs.FollowupRecommendations(ctx, h.user.ID)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one recommendation, got %+v", recs)
	}
	if recs[0].WorksheetID != model.WorkbookFollowupID || recs[0].Priority != model.PriorityHigh ||
		recs[0].ReasonKind != model.ReasonExplicitRequest || recs[0].Title != "Workbook Follow-up" {
		t.Fatalf("recommendation: %+v", recs[0])
	}

	f, err := h.followups.Start(ctx, h.user.ID, sub.ID, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.Status != model.FollowupPending || f.Category != model.CategoryWorkbook || f.FollowupWorksheetID != model.WorkbookFollowupID {
		t.Fatalf("started follow-up: %+v", f)
	}
	if meta := f.Metadata.Data(); meta.OriginalTitle != "Leadership Workbook" || meta.FollowupTitle != "Workbook Follow-up" {
		t.Fatalf("metadata: %+v", meta)
	}
	again, err := h.followups.Start(ctx, h.user.ID, sub.ID, model.WorkbookFollowupID)
	if err != nil || again.ID != f.ID {
		t.Fatalf("start should be idempotent: %v %s != %s", err, again.ID, f.ID)
	}

	if _, err := h.followups.SaveAnswers(h.user.ID, f.ID, answersOf("reflection", "went well")); err != nil {
		t.Fatalf("save answers: %v", err)
	}

	h.lm.text = workbookFollowupResponse
	done, err := h.followups.Complete(ctx, h.user.ID, f.ID, answersOf("p7-delegation-rating", 4))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.IsCompleted() || done.CompletedAt == nil || done.DiagnosisGeneratedAt == nil {
		t.Fatalf("not completed: %+v", done)
	}
	if len(lock.acquired) != 1 || lock.acquired[0] != "followup:"+f.ID || lock.released != 1 {
		t.Fatalf("lock use: %+v", lock)
	}
	if !containsAll(h.lm.user, "went well", "ORIGINAL DIAGNOSIS CONTEXT", "Dependable") {
		t.Fatalf("follow-up prompt lacks context:\n%s", h.lm.user)
	}

	meta := done.Metadata.Data()
	if meta.ImprovementScore == nil || *meta.ImprovementScore != 2 {
		t.Fatalf("improvement score: %v", meta.ImprovementScore)
	}
	if meta.TimeElapsed == "" {
		t.Fatalf("time elapsed not recorded")
	}

	d, err := done.DiagnosisResult()
	if err != nil || d == nil {
		t.Fatalf("diagnosis: %v", err)
	}
	if d.Summary != "Delegation improved noticeably." || d.SituationAnalysis != "Delegation freed time for strategy." {
		t.Fatalf("diagnosis text: %+v", d)
	}
	if len(d.Strengths) != 1 || d.Strengths[0] != "Now hands off weekly reporting to the team." {
		t.Fatalf("strengths should come from their own section: %v", d.Strengths)
	}
	if d.FollowupRecommendation == nil || d.FollowupRecommendation.ID != model.GenericFollowupID {
		t.Fatalf("follow-up recommendation: %+v", d.FollowupRecommendation)
	}
	if len(d.FollowupWorksheets.Pillars) != 1 || d.FollowupWorksheets.Pillars[0] != "pillar10_coaching_development" {
		t.Fatalf("next pillars: %v", d.FollowupWorksheets.Pillars)
	}
	if _, err := os.Stat(filepath.Join(h.archiveDir, ArchiveKey(ArchiveFollowup, f.ID))); err != nil {
		t.Fatalf("follow-up archive: %v", err)
	}

	if _, err := h.followups.Complete(ctx, h.user.ID, f.ID, model.NewAnswers()); !errors.Is(err, util.ErrFollowupAlreadyCompleted) {
		t.Fatalf("expected ErrFollowupAlreadyCompleted, got %v", err)
	}
	recs, err = h.recs.FollowupRecommendations(ctx, h.user.ID)
	if err != nil || len(recs) != 0 {
		t.Fatalf("completed follow-up should not be recommended: %v %+v", err, recs)
	}
}

func TestFollowupService_CompleteWaitsOutEarlierCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	lock := &fakeLock{}
	h.followups.Lock = lock

	sub := h.submitWorkbook(t, answersOf("p7-delegation-rating", 2))
	f, err := h.followups.Start(ctx, h.user.ID, sub.ID, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	h.lm.text = workbookFollowupResponse
	calls := h.lm.calls
	var first *model.FollowupAssessment
	lock.beforeGrant = func() {
		var err error
		first, err = h.followups.Complete(ctx, h.user.ID, f.ID, answersOf("p7-delegation-rating", 4))
		if err != nil {
			t.Errorf("first complete: %v", err)
		}
	}

	if _, err := h.followups.Complete(ctx, h.user.ID, f.ID, answersOf("p7-delegation-rating", 5)); !errors.Is(err, util.ErrFollowupAlreadyCompleted) {
		t.Fatalf("expected ErrFollowupAlreadyCompleted, got %v", err)
	}
	if got := h.lm.calls - calls; got != 1 {
		t.Fatalf("model calls: got=%d want=1", got)
	}
	if first == nil || first.CompletedAt == nil {
		t.Fatalf("first completion did not finish: %+v", first)
	}

	stored, err := h.followups.Get(h.user.ID, f.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CompletedAt == nil || stored.CompletedAt.Sub(*first.CompletedAt).Abs() > time.Second {
		t.Fatalf("completed at: got=%v want=%v", stored.CompletedAt, first.CompletedAt)
	}
	answers, _ := stored.AnswerSet()
	if v, _ := answers.Get("p7-delegation-rating"); v.String() != "4" {
		t.Fatalf("answers overwritten: rating=%q", v.String())
	}
	if lock.released != 2 {
		t.Fatalf("lock releases: got=%d want=2", lock.released)
	}
}

func TestFollowupService_StartGuards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	draft, err := h.submissions.SaveDraft(ctx, h.user.ID, DraftRequest{WorksheetID: model.WorkbookID})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := h.followups.Start(ctx, h.user.ID, draft.ID, ""); !errors.Is(err, util.ErrSubmissionNotSubmitted) {
		t.Fatalf("expected ErrSubmissionNotSubmitted, got %v", err)
	}

	sub := h.submitWorkbook(t, model.NewAnswers())
	if _, err := h.followups.Start(ctx, h.user.ID, sub.ID, "pillar1_leadership_identity"); !errors.Is(err, util.ErrNotAFollowup) {
		t.Fatalf("expected ErrNotAFollowup, got %v", err)
	}
	if _, err := h.followups.Start(ctx, h.user.ID+1, sub.ID, ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := h.followups.Get(h.user.ID, "missing"); !errors.Is(err, util.ErrFollowupNotFound) {
		t.Fatalf("expected ErrFollowupNotFound, got %v", err)
	}
}

func TestFollowupService_PillarFollowupFailureKeepsAnswers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := h.submitWorkbook(t, model.NewAnswers())

	f, err := h.followups.Start(ctx, h.user.ID, sub.ID, "pillar3_communication_mastery-followup")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.Category != model.CategoryPillar || f.Metadata.Data().PillarID != "pillar3_communication_mastery" {
		t.Fatalf("pillar follow-up: %+v %+v", f, f.Metadata.Data())
	}

	h.lm.err = errors.New("rate limited")
	if _, err := h.followups.Complete(ctx, h.user.ID, f.ID, answersOf("p3-clarity-rating", 3)); !errors.Is(err, util.ErrDiagnosisGenerationFailed) {
		t.Fatalf("expected ErrDiagnosisGenerationFailed, got %v", err)
	}

	stored, err := h.followups.Get(h.user.ID, f.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d, _ := stored.DiagnosisResult(); stored.IsCompleted() || d != nil {
		t.Fatalf("failed completion should not finish the follow-up: %+v", stored)
	}
	if answers, _ := stored.AnswerSet(); answers.Len() != 1 {
		t.Fatalf("answers should be kept, got %d", answers.Len())
	}
	if !containsAll(h.lm.user, "Communication Mastery", "pillar3_communication_mastery") {
		t.Fatalf("pillar context missing:\n%s", h.lm.user)
	}
}

func TestRecommendationService_WorksheetRanking(t *testing.T) {
	h := newHarness(t)
	h.submitWorkbook(t, model.NewAnswers())

	got, err := h.recs.WorksheetRecommendations(context.Background(), h.user.ID, "pillar1_leadership_identity")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("expected workbook and 11 pillars, got %d", len(got))
	}
	if got[0].WorksheetID != "pillar7_delegation_empowerment" || got[0].Score != 5 {
		t.Fatalf("suggested pillar should lead: %+v", got[0])
	}
	last := got[len(got)-1]
	if last.WorksheetID != model.WorkbookID || last.Score != -1 {
		t.Fatalf("submitted workbook should trail: %+v", last)
	}
	for _, r := range got {
		if r.WorksheetID == "pillar1_leadership_identity" {
			t.Fatalf("current worksheet not excluded")
		}
	}
}

func TestImprovementScore(t *testing.T) {
	if got := ImprovementScore(answersOf("a", 1), answersOf("b", 3)); got != nil {
		t.Fatalf("expected nil without overlap, got %v", *got)
	}
	got := ImprovementScore(answersOf("a", 1, "b", 4, "c", "text"), answersOf("a", 3, "b", 3, "c", "more"))
	if got == nil || *got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
