package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/google/uuid"

	"caseintake/internal/cache"
	"caseintake/internal/engine"
	"caseintake/internal/model"
	"caseintake/internal/quality"
	"caseintake/internal/repository"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrEvaluationInFlight    = errors.New("an evaluation is already in flight for this session")
	ErrGenerationFailed      = errors.New("document generation is temporarily unavailable")
	ErrRegenerateUnavailable = errors.New("regeneration is not available for this session")
)

// InterviewService orchestrates the interview loop: accept an answer,
// accumulate context, evaluate, decide, transition, persist, broadcast.
type InterviewService struct {
	sessionCache   cache.SessionCache
	draftRepo      repository.DraftRepo
	submissionRepo repository.SubmissionRepo
	documentRepo   repository.DocumentRepo
	evaluator      *EvaluatorService
	gate           *quality.Gate
	segments       []engine.SegmentConfig
	rules          map[string]engine.SegmentRule
	broadcaster    Broadcaster
}

// NewInterviewService creates a new interview service. The per-segment rule
// table is validated here so a misconfigured deployment fails at startup.
func NewInterviewService(
	sessionCache cache.SessionCache,
	draftRepo repository.DraftRepo,
	submissionRepo repository.SubmissionRepo,
	documentRepo repository.DocumentRepo,
	evaluator *EvaluatorService,
	gate *quality.Gate,
	segments []engine.SegmentConfig,
	rules map[string]engine.SegmentRule,
) (*InterviewService, error) {
	if err := engine.ValidateRules(segments, rules); err != nil {
		return nil, fmt.Errorf("invalid segment rules: %w", err)
	}
	return &InterviewService{
		sessionCache:   sessionCache,
		draftRepo:      draftRepo,
		submissionRepo: submissionRepo,
		documentRepo:   documentRepo,
		evaluator:      evaluator,
		gate:           gate,
		segments:       segments,
		rules:          rules,
	}, nil
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartSession creates a fresh interview, or rebuilds one from a persisted
// draft when resumeSessionID is set. Returns the state and whether a draft
// was actually resumed.
func (s *InterviewService) StartSession(ctx context.Context, resumeSessionID string) (*model.InterviewState, bool, error) {
	if resumeSessionID != "" {
		snapshot, err := s.draftRepo.GetBySessionID(ctx, resumeSessionID)
		if err != nil {
			// A missing or unreadable draft is "nothing saved yet", not a failure
			log.Printf("draft lookup failed for %s: %v", resumeSessionID, err)
			snapshot = nil
		}
		state := engine.Reconcile(resumeSessionID, s.segments, snapshot)
		if err := s.sessionCache.SetState(ctx, resumeSessionID, state); err != nil {
			return nil, false, fmt.Errorf("failed to save session state: %w", err)
		}
		// A draft may carry answers only past the resume point, so the
		// resume index alone does not tell whether anything was restored.
		resumed := snapshot != nil && anyComplete(state)
		return state, resumed, nil
	}

	sessionID := "s_" + uuid.New().String()[:8]
	state := engine.NewInterview(sessionID, s.segments)
	if err := s.sessionCache.SetState(ctx, sessionID, state); err != nil {
		return nil, false, fmt.Errorf("failed to save session state: %w", err)
	}
	return state, false, nil
}

func anyComplete(state *model.InterviewState) bool {
	for _, seg := range state.Segments {
		if seg.IsComplete {
			return true
		}
	}
	return false
}

// GetState loads the live interview state for a session
func (s *InterviewService) GetState(ctx context.Context, sessionID string) (*model.InterviewState, error) {
	state, err := s.sessionCache.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// SubmitAnswer handles one user turn: evaluate the answer, decide between
// follow-up and advance, and transition the state machine. The per-session
// evaluation lock rejects overlapping turns so two decisions can never race
// on the same segment's follow-up counter, and guarantees the follow-up
// message is appended strictly after its evaluation resolves.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID string, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResponse, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	locked, err := s.sessionCache.AcquireEvalLock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire evaluation lock: %w", err)
	}
	if !locked {
		return nil, ErrEvaluationInFlight
	}
	defer func() {
		if err := s.sessionCache.ReleaseEvalLock(ctx, sessionID); err != nil {
			log.Printf("failed to release eval lock for %s: %v", sessionID, err)
		}
	}()

	seg, err := engine.AppendUserAnswer(state, req.SegmentID, req.Answer)
	if err != nil {
		return nil, err
	}

	s.broadcast(sessionID, "ai_thinking", map[string]interface{}{
		"segmentId": seg.ID,
		"turn":      state.Turn,
	})

	question := seg.InitialQuestion
	if len(seg.Messages) >= 2 {
		// Evaluate against the question the user actually answered
		for i := len(seg.Messages) - 2; i >= 0; i-- {
			if seg.Messages[i].Role == model.RoleAssistant {
				question = seg.Messages[i].Content
				break
			}
		}
	}

	ectx := s.buildEvaluationContext(state)
	eval := s.evaluator.EvaluateAnswer(ctx, question, req.Answer, ectx)

	rule := s.rules[seg.ID]
	verdict := engine.Decide(eval, utf8.RuneCountInString(req.Answer), rule, seg.FollowUpCount, seg.MaxFollowUps)

	followUpQuestion := ""
	if verdict == engine.VerdictMandatoryFollowUp || verdict == engine.VerdictOptionalFollowUp {
		followUpQuestion = s.resolveFollowUp(ctx, eval, question, req.Answer, ectx)
	}

	if err := engine.ApplyVerdict(state, verdict, followUpQuestion); err != nil {
		return nil, err
	}
	if followUpQuestion == "" &&
		(verdict == engine.VerdictMandatoryFollowUp || verdict == engine.VerdictOptionalFollowUp) {
		// Generation collaborator failed; the engine degraded the turn
		verdict = engine.VerdictAdvance
	}

	if err := s.sessionCache.SetState(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}

	s.autosaveDraft(ctx, state, "", nil)

	resp := &model.SubmitAnswerResponse{
		SegmentID:        req.SegmentID,
		Verdict:          string(verdict),
		FollowUpQuestion: followUpQuestion,
		Status:           state.Status,
	}

	switch {
	case verdict != engine.VerdictAdvance:
		s.broadcast(sessionID, "evaluation_result", resp)
	case state.Status == model.InterviewReview:
		s.broadcast(sessionID, "interview_complete", map[string]interface{}{
			"sessionId": sessionID,
		})
	default:
		resp.NextSegment = state.CurrentSegment()
		s.broadcast(sessionID, "segment_advanced", map[string]interface{}{
			"segmentId": resp.NextSegment.ID,
			"title":     resp.NextSegment.Title,
		})
	}

	return resp, nil
}

// resolveFollowUp produces the question text for a follow-up verdict. A
// fallback evaluation already carries the fixed question; otherwise the
// generation collaborator is asked. Empty return means "degrade to advance".
func (s *InterviewService) resolveFollowUp(ctx context.Context, eval *model.EvaluationResult, question, answer string, ectx model.EvaluationContext) string {
	if eval.FollowUpQuestion != "" {
		return eval.FollowUpQuestion
	}
	generated, err := s.evaluator.GenerateFollowUp(ctx, question, answer, ectx)
	if err != nil {
		log.Printf("follow-up generation failed, advancing: %v", err)
		return ""
	}
	return generated
}

// SaveDraft persists a snapshot of the interview plus an in-progress
// partial answer and the user's UI selections. Autosave is fire and
// forget: failures are logged, never surfaced, and never block segment
// transitions.
func (s *InterviewService) SaveDraft(ctx context.Context, sessionID, segmentID, partialAnswer string, selections []string) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		log.Printf("autosave skipped for %s: %v", sessionID, err)
		return
	}
	if state.Status == model.InterviewSubmitted {
		return
	}
	s.autosaveDraft(ctx, state, partialAnswer, selections)
}

func (s *InterviewService) autosaveDraft(ctx context.Context, state *model.InterviewState, partialAnswer string, selections []string) {
	snapshot := &model.DraftSnapshot{
		SessionID:         state.SessionID,
		PerSegmentAnswers: state.AnswerMap(),
		Selections:        selections,
	}
	if seg := state.CurrentSegment(); seg != nil {
		snapshot.CurrentStepHint = seg.ID
		if partialAnswer != "" {
			snapshot.PerSegmentAnswers[seg.ID] = partialAnswer
		}
	}
	if err := s.draftRepo.Upsert(ctx, snapshot); err != nil {
		log.Printf("autosave failed for %s: %v", state.SessionID, err)
	}
}

// Reopen returns a completed segment for editing during review
func (s *InterviewService) Reopen(ctx context.Context, sessionID, segmentID string) (*model.Segment, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return engine.Reopen(state, segmentID)
}

// CommitEdit replaces a completed segment's answer during review. No
// re-evaluation runs and the follow-up counter is untouched.
func (s *InterviewService) CommitEdit(ctx context.Context, sessionID, segmentID, answer string) (*model.InterviewState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.CommitEdit(state, segmentID, answer); err != nil {
		return nil, err
	}
	if err := s.sessionCache.SetState(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}
	s.autosaveDraft(ctx, state, "", nil)
	return state, nil
}

// SubmitInterview is the one-way transition out of the engine: generate
// the document, run the quality gate, persist everything. A generator
// failure leaves the interview in review and surfaces a retryable error;
// a failed quality check is a normal outcome reported as data.
func (s *InterviewService) SubmitInterview(ctx context.Context, sessionID string) (*model.SubmitInterviewResponse, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Status == model.InterviewSubmitted {
		return nil, engine.ErrAlreadySubmitted
	}
	if state.Status != model.InterviewReview {
		return nil, engine.ErrNotInReview
	}

	answers := state.AnswerMap()
	ectx := s.buildEvaluationContext(state)

	doc, err := s.evaluator.GenerateDocument(ctx, answers, ectx)
	if err != nil {
		log.Printf("document generation failed for %s: %v", sessionID, err)
		return nil, ErrGenerationFailed
	}
	doc.SessionID = sessionID

	result := s.gate.CheckQuality(doc, state.Context.Category, state.Context.Stage)

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}

	submission := &model.Submission{
		SessionID:  sessionID,
		Answers:    answers,
		Context:    state.Context,
		DocumentID: doc.ID,
		Quality:    result,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	if err := engine.Submit(state); err != nil {
		return nil, err
	}
	if err := s.sessionCache.SetState(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}

	// The draft is spent; a submitted interview is never resumed
	if err := s.draftRepo.Delete(ctx, sessionID); err != nil {
		log.Printf("failed to delete draft for %s: %v", sessionID, err)
	}

	s.broadcast(sessionID, "submission_complete", map[string]interface{}{
		"documentId": doc.ID,
		"passed":     result.Passed,
		"score":      result.Score,
	})

	return &model.SubmitInterviewResponse{
		DocumentID: doc.ID,
		Document:   doc,
		Quality:    &result,
	}, nil
}

// RegenerateDocument re-runs document generation and the quality gate for
// a submitted interview whose document failed the gate. One retry only:
// the frozen answers do not change, so repeated regeneration would just
// burn collaborator calls. A generator failure does not spend the retry.
func (s *InterviewService) RegenerateDocument(ctx context.Context, sessionID string) (*model.SubmitInterviewResponse, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Status != model.InterviewSubmitted {
		return nil, ErrRegenerateUnavailable
	}

	submission, err := s.submissionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission == nil || submission.Quality.Passed {
		return nil, ErrRegenerateUnavailable
	}

	docs, err := s.documentRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) > 1 {
		// The original plus one regeneration already exist
		return nil, ErrRegenerateUnavailable
	}

	ectx := model.EvaluationContext{
		Industry:        submission.Context.Category,
		BusinessStage:   submission.Context.Stage,
		BusinessIdea:    submission.Answers["business-idea"],
		PreviousAnswers: submission.Answers,
	}

	doc, err := s.evaluator.GenerateDocument(ctx, submission.Answers, ectx)
	if err != nil {
		log.Printf("document regeneration failed for %s: %v", sessionID, err)
		return nil, ErrGenerationFailed
	}
	doc.SessionID = sessionID

	result := s.gate.CheckQuality(doc, submission.Context.Category, submission.Context.Stage)

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}

	submission.DocumentID = doc.ID
	submission.Quality = result
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	s.broadcast(sessionID, "submission_complete", map[string]interface{}{
		"documentId": doc.ID,
		"passed":     result.Passed,
		"score":      result.Score,
	})

	return &model.SubmitInterviewResponse{
		DocumentID: doc.ID,
		Document:   doc,
		Quality:    &result,
	}, nil
}

// GetDocument loads a generated document by ID
func (s *InterviewService) GetDocument(ctx context.Context, id string) (*model.GeneratedDocument, error) {
	return s.documentRepo.GetByID(ctx, id)
}

// buildEvaluationContext assembles the context payload threaded into every
// collaborator call from the accumulated interview state
func (s *InterviewService) buildEvaluationContext(state *model.InterviewState) model.EvaluationContext {
	ectx := model.EvaluationContext{
		Industry:        state.Context.Category,
		BusinessStage:   state.Context.Stage,
		PreviousAnswers: state.AnswerMap(),
	}
	for _, seg := range state.Segments {
		if seg.ID == "business-idea" && seg.FinalAnswer != "" {
			ectx.BusinessIdea = seg.FinalAnswer
			break
		}
	}
	return ectx
}

func (s *InterviewService) broadcast(sessionID, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, event, payload)
	}
}
