package scitalk

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generation limits per AI call, mirroring the service budgets.
const (
	verificationMaxTokens = 100
	questionMaxTokens     = 300
	answerMaxTokens       = 300
	feedbackMaxTokens     = 600

	verificationTemperature float32 = 0.0
	defaultTemperature      float32 = 0.7
)

// Inline messages shown in the form.
const (
	MsgInputIncomplete  = "학년, 과목명, 수업 주제를 모두 입력/선택해주세요."
	MsgTopicApproved    = "주제가 교육과정에 적합합니다."
	MsgEmptyQuestion    = "질문을 입력해주세요."
	MsgOffTopicQuestion = "해당 질문은 현재 학습 주제와 관련된 내용이 아닙니다. 수업 내용과 연결된 질문을 해보세요."
)

// Gate violations surfaced to the caller.
var (
	ErrTopicNotApproved = errors.New("topic has not been approved for this curriculum")
	ErrQuestionNotReady = errors.New("no discussion question has been generated yet")
)

// Workflow sequences the user-triggered steps of a session: topic
// verification, question generation, feedback, and follow-up Q&A. Every
// method mutates only the session it is given; AI failures never corrupt
// previously stored fields.
type Workflow struct {
	gen TextGenerator
}

// NewWorkflow creates a workflow backed by the given text generator.
func NewWorkflow(gen TextGenerator) *Workflow {
	return &Workflow{gen: gen}
}

// generate runs one AI call and mirrors it to the session transcript.
func (w *Workflow) generate(ctx context.Context, s *Session, stage, systemRole, prompt string, maxTokens int, temperature float32) (string, error) {
	if s.Transcript != nil {
		s.Transcript.LogRequest(stage, prompt)
	}
	text, err := w.gen.Generate(ctx, systemRole, prompt, maxTokens, temperature)
	if s.Transcript != nil {
		if err != nil {
			s.Transcript.LogResponse(stage, "ERROR: "+err.Error())
		} else {
			s.Transcript.LogResponse(stage, text)
		}
	}
	return text, err
}

// VerifyTopic runs the curriculum check for the current topic selection. It
// does nothing until grade, subject and topic are all filled in, and runs at
// most once per distinct selection, so repeated renders are idempotent. The
// outcome lands in the session's verification status and message; a service
// failure is captured there rather than returned.
func (w *Workflow) VerifyTopic(ctx context.Context, s *Session) {
	if !s.InputComplete() {
		s.VerificationMessage = MsgInputIncomplete
		return
	}
	if s.Verification != VerificationNotChecked {
		return // already checked for this topic
	}

	s.Verification = VerificationPending
	VerboseLog("Verifying topic %q for %s / %s", s.Topic, s.GradeLevel, s.SubjectName)

	prompt := BuildVerificationPrompt(s.Topic, s.GradeLevel, s.SubjectName)
	result, err := w.generate(ctx, s, "verification", RoleCurriculumExpert, prompt, verificationMaxTokens, verificationTemperature)
	if err != nil {
		s.Verification = VerificationError
		s.VerificationMessage = fmt.Sprintf("검증 중 오류 발생: %v", err)
		return
	}

	if strings.Contains(result, "예") {
		s.Verification = VerificationApproved
		s.VerificationMessage = MsgTopicApproved
	} else {
		s.Verification = VerificationRejected
		s.VerificationMessage = fmt.Sprintf("부적합한 주제입니다. AI 응답: %s", result)
	}
}

// GenerateQuestion produces the discussion question for an approved topic.
// On failure the previously generated question is left untouched.
func (w *Workflow) GenerateQuestion(ctx context.Context, s *Session) error {
	if !s.CanGenerateQuestion() {
		return ErrTopicNotApproved
	}

	prompt := BuildQuestionPrompt(s.Topic, s.GradeLevel, s.SubjectName)
	question, err := w.generate(ctx, s, "question", RoleScienceTeacher, prompt, questionMaxTokens, defaultTemperature)
	if err != nil {
		return fmt.Errorf("failed to generate question: %w", err)
	}

	s.GeneratedQuestion = question
	return nil
}

// GenerateFeedback evaluates the student's written answer. A blank answer is
// silently ignored: no AI call is made and the stored feedback is unchanged.
func (w *Workflow) GenerateFeedback(ctx context.Context, s *Session, studentAnswer string) error {
	if !s.CanAnswer() {
		return ErrQuestionNotReady
	}
	if strings.TrimSpace(studentAnswer) == "" {
		return nil
	}

	s.StudentAnswer = studentAnswer
	prompt := BuildFeedbackPrompt(s.Topic, studentAnswer, s.GradeLevel, s.SubjectName)
	feedback, err := w.generate(ctx, s, "feedback", RoleAnswerEvaluator, prompt, feedbackMaxTokens, defaultTemperature)
	if err != nil {
		return fmt.Errorf("failed to generate feedback: %w", err)
	}

	s.AIFeedback = feedback
	return nil
}

// AnswerStudentQuestion handles one free-text follow-up question. Questions
// that do not contain the current topic are rejected locally without an AI
// call; the substring check is a cost guard, not a semantic match, so a
// paraphrase of the topic fails it. Accepted answers are appended to the
// session's follow-up history in insertion order.
func (w *Workflow) AnswerStudentQuestion(ctx context.Context, s *Session, question string) (reply string, accepted bool, err error) {
	if !s.CanAnswer() {
		return "", false, ErrQuestionNotReady
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return MsgEmptyQuestion, false, nil
	}
	if !strings.Contains(strings.ToLower(question), strings.ToLower(s.Topic)) {
		VerboseLog("Follow-up rejected by topic gate: %q does not mention %q", question, s.Topic)
		return MsgOffTopicQuestion, false, nil
	}

	prompt := BuildAnswerExplanationPrompt(s.Topic, question)
	answer, err := w.generate(ctx, s, "follow-up", RoleScienceTutor, prompt, answerMaxTokens, defaultTemperature)
	if err != nil {
		return "", false, fmt.Errorf("failed to answer question: %w", err)
	}

	s.FollowUps = append(s.FollowUps, FollowUp{Question: question, Answer: answer})
	return answer, true, nil
}
