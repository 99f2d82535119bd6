package scitalk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator is a test double that replays canned responses and
// records how it was called.
type scriptedGenerator struct {
	replies []string
	err     error

	calls           int
	lastRole        string
	lastPrompt      string
	lastMaxTokens   int
	lastTemperature float32
}

func (g *scriptedGenerator) Generate(_ context.Context, systemRole, userPrompt string, maxTokens int, temperature float32) (string, error) {
	g.calls++
	g.lastRole = systemRole
	g.lastPrompt = userPrompt
	g.lastMaxTokens = maxTokens
	g.lastTemperature = temperature

	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", errors.New("scripted generator exhausted")
	}
	reply := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return reply, nil
}

func newApprovedSession(t *testing.T, gen *scriptedGenerator) (*Workflow, *Session) {
	t.Helper()
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "전기 회로")
	wf.VerifyTopic(context.Background(), s)
	require.Equal(t, VerificationApproved, s.Verification)
	return wf, s
}

func TestVerifyTopic_Approved(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예, 교육과정에 적합합니다."}}
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "전기 회로")

	wf.VerifyTopic(context.Background(), s)

	assert.Equal(t, VerificationApproved, s.Verification)
	assert.Equal(t, MsgTopicApproved, s.VerificationMessage)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, RoleCurriculumExpert, gen.lastRole)
	assert.Equal(t, 100, gen.lastMaxTokens)
	assert.Equal(t, float32(0.0), gen.lastTemperature)
	assert.Contains(t, gen.lastPrompt, "전기 회로")
	assert.Contains(t, gen.lastPrompt, "학년: 중1")
}

func TestVerifyTopic_IdempotentPerTopic(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예"}}
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "전기 회로")

	wf.VerifyTopic(context.Background(), s)
	wf.VerifyTopic(context.Background(), s)
	wf.VerifyTopic(context.Background(), s)

	assert.Equal(t, 1, gen.calls)
}

func TestVerifyTopic_Rejected(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"아니오. 해당 학년 범위를 벗어납니다."}}
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "상대성 이론")

	wf.VerifyTopic(context.Background(), s)

	assert.Equal(t, VerificationRejected, s.Verification)
	assert.Contains(t, s.VerificationMessage, "부적합한 주제입니다")
	assert.Contains(t, s.VerificationMessage, "아니오. 해당 학년 범위를 벗어납니다.")
	assert.False(t, s.CanGenerateQuestion())
}

func TestVerifyTopic_ServiceError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("connection refused")}
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "전기 회로")

	wf.VerifyTopic(context.Background(), s)

	assert.Equal(t, VerificationError, s.Verification)
	assert.Contains(t, s.VerificationMessage, "검증 중 오류 발생")
	assert.False(t, s.CanGenerateQuestion())
}

func TestVerifyTopic_IncompleteInput(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예"}}
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "   ")

	wf.VerifyTopic(context.Background(), s)

	assert.Equal(t, VerificationNotChecked, s.Verification)
	assert.Equal(t, MsgInputIncomplete, s.VerificationMessage)
	assert.Equal(t, 0, gen.calls)
}

func TestSetTopic_ResetsVerificationKeepsFollowUps(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "전기 회로란 무엇일까요?"}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))
	s.FollowUps = append(s.FollowUps, FollowUp{Question: "q", Answer: "a"})

	s.SetTopic("중1", "중1 과학", "세포 호흡")

	assert.Equal(t, VerificationNotChecked, s.Verification)
	assert.Empty(t, s.VerificationMessage)
	assert.Empty(t, s.GeneratedQuestion)
	assert.Empty(t, s.AIFeedback)
	assert.Len(t, s.FollowUps, 1, "follow-up history survives a topic change")
	assert.False(t, s.CanGenerateQuestion(), "question generation locked until re-verification")
}

func TestSetTopic_SameSelectionIsNoop(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예"}}
	_, s := newApprovedSession(t, gen)

	s.SetTopic("중1", "중1 과학", "  전기 회로  ")

	assert.Equal(t, VerificationApproved, s.Verification, "unchanged topic keeps its verification")
}

func TestGenerateQuestion_RequiresApproval(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"질문"}}
	wf := NewWorkflow(gen)
	s := NewSession("test")
	s.SetTopic("중1", "중1 과학", "전기 회로")

	err := wf.GenerateQuestion(context.Background(), s)

	assert.ErrorIs(t, err, ErrTopicNotApproved)
	assert.Equal(t, 0, gen.calls)
}

func TestGenerateQuestion_Success(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "전기 회로에서 전구의 밝기는 무엇이 결정할까요?"}}
	wf, s := newApprovedSession(t, gen)

	require.NoError(t, wf.GenerateQuestion(context.Background(), s))

	assert.Equal(t, "전기 회로에서 전구의 밝기는 무엇이 결정할까요?", s.GeneratedQuestion)
	assert.Equal(t, RoleScienceTeacher, gen.lastRole)
	assert.Equal(t, 300, gen.lastMaxTokens)
	assert.Equal(t, float32(0.7), gen.lastTemperature)
}

func TestGenerateQuestion_FailureKeepsPrior(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "첫 번째 질문"}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))

	gen.err = errors.New("timeout")
	err := wf.GenerateQuestion(context.Background(), s)

	require.Error(t, err)
	assert.Equal(t, "첫 번째 질문", s.GeneratedQuestion)
}

func TestGenerateFeedback_BlankAnswerIgnored(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "질문"}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))
	callsBefore := gen.calls

	require.NoError(t, wf.GenerateFeedback(context.Background(), s, "   \n\t"))

	assert.Empty(t, s.AIFeedback)
	assert.Equal(t, callsBefore, gen.calls, "blank answer must not trigger an AI call")
}

func TestGenerateFeedback_RequiresQuestion(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예"}}
	wf, s := newApprovedSession(t, gen)

	err := wf.GenerateFeedback(context.Background(), s, "전기는 전자의 흐름이다")

	assert.ErrorIs(t, err, ErrQuestionNotReady)
}

func TestGenerateFeedback_Success(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "질문", "좋은 답변입니다."}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))

	require.NoError(t, wf.GenerateFeedback(context.Background(), s, "전기는 전자의 흐름이다"))

	assert.Equal(t, "좋은 답변입니다.", s.AIFeedback)
	assert.Equal(t, "전기는 전자의 흐름이다", s.StudentAnswer)
	assert.Equal(t, RoleAnswerEvaluator, gen.lastRole)
	assert.Equal(t, 600, gen.lastMaxTokens)
	assert.Contains(t, gen.lastPrompt, "전기는 전자의 흐름이다")
	assert.True(t, s.CanExport())
}

func TestAnswerStudentQuestion_TopicGate(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "질문", "저항은 전류의 흐름을 방해합니다."}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))
	callsBefore := gen.calls

	// Topic substring present: the AI path runs and history grows.
	reply, accepted, err := wf.AnswerStudentQuestion(context.Background(), s, "전기 회로가 왜 중요한가요?")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "저항은 전류의 흐름을 방해합니다.", reply)
	assert.Equal(t, callsBefore+1, gen.calls)
	require.Len(t, s.FollowUps, 1)
	assert.Equal(t, "전기 회로가 왜 중요한가요?", s.FollowUps[0].Question)

	// Topic substring absent: fixed rejection, no AI call, no history entry.
	reply, accepted, err = wf.AnswerStudentQuestion(context.Background(), s, "이건 관련 없는 질문")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, MsgOffTopicQuestion, reply)
	assert.Equal(t, callsBefore+1, gen.calls)
	assert.Len(t, s.FollowUps, 1)
}

func TestAnswerStudentQuestion_EmptyInput(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "질문"}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))
	callsBefore := gen.calls

	reply, accepted, err := wf.AnswerStudentQuestion(context.Background(), s, "  ")

	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, MsgEmptyQuestion, reply)
	assert.Equal(t, callsBefore, gen.calls)
	assert.Empty(t, s.FollowUps)
}

func TestAnswerStudentQuestion_HistoryOrder(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"예", "질문", "답변1", "답변2"}}
	wf, s := newApprovedSession(t, gen)
	require.NoError(t, wf.GenerateQuestion(context.Background(), s))

	_, _, err := wf.AnswerStudentQuestion(context.Background(), s, "전기 회로 직렬 연결은 무엇인가요?")
	require.NoError(t, err)
	_, _, err = wf.AnswerStudentQuestion(context.Background(), s, "전기 회로 병렬 연결은 무엇인가요?")
	require.NoError(t, err)

	require.Len(t, s.FollowUps, 2)
	assert.Equal(t, "답변1", s.FollowUps[0].Answer)
	assert.Equal(t, "답변2", s.FollowUps[1].Answer)
}

// TestWorkflow_EndToEnd walks the full classroom flow: verify, generate a
// question, collect an answer, generate feedback, reject an off-topic
// follow-up locally, then accept an on-topic one.
func TestWorkflow_EndToEnd(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		"예, 중1 과학 교육과정에 포함됩니다.",
		"전기 회로에서 전구를 더 밝게 만들 방법은 무엇일까요?",
		"요약과 피드백, 예시 답안입니다.",
		"자기장은 전류 주변에 생기는 힘의 영역입니다.",
	}}
	wf := NewWorkflow(gen)
	s := NewSession("e2e")

	s.SetTopic("중1", "중1 과학", "전기 회로")
	wf.VerifyTopic(context.Background(), s)
	require.Equal(t, VerificationApproved, s.Verification)

	require.NoError(t, wf.GenerateQuestion(context.Background(), s))
	require.NotEmpty(t, s.GeneratedQuestion)

	require.NoError(t, wf.GenerateFeedback(context.Background(), s, "전기는 전자의 흐름이다"))
	require.NotEmpty(t, s.AIFeedback)

	// Off-topic follow-up is rejected without an AI call.
	callsBefore := gen.calls
	reply, accepted, err := wf.AnswerStudentQuestion(context.Background(), s, "자기장은 무엇인가요?")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, MsgOffTopicQuestion, reply)
	assert.Equal(t, callsBefore, gen.calls)
	assert.Empty(t, s.FollowUps)

	// Rephrased with the topic mentioned, it is answered and recorded.
	_, accepted, err = wf.AnswerStudentQuestion(context.Background(), s, "전기 회로 자기장은 무엇인가요?")
	require.NoError(t, err)
	assert.True(t, accepted)
	require.Len(t, s.FollowUps, 1)
	assert.True(t, s.CanExport())
}
