package scitalk

import (
	"fmt"
	"strings"
)

// System roles for each kind of AI call.
const (
	RoleScienceTeacher   = "당신은 중고등학교 과학교사입니다."
	RoleScienceTutor     = "당신은 중고등학교 과학 선생님입니다."
	RoleAnswerEvaluator  = "당신은 학생의 과학 답변을 평가하는 교사입니다."
	RoleCurriculumExpert = "당신은 교육과정 전문가입니다."
)

// BuildQuestionPrompt asks for exactly one open-ended discussion question on
// the topic, hinting at the curriculum concepts for the grade/subject when
// the keyword table has them.
func BuildQuestionPrompt(topic, gradeLevel, subjectName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("다음은 과학 수업 주제입니다: \"%s\"\n", topic))
	if keywords := Concepts(gradeLevel, subjectName); len(keywords) > 0 {
		sb.WriteString(fmt.Sprintf("다음 개념 중 하나 이상을 참고해서 질문을 만들어주세요: %s.\n", strings.Join(keywords, ", ")))
	}
	sb.WriteString("이 주제와 관련된 사고 확장 질문 1개를 생성해주세요.\n")
	sb.WriteString("너무 노골적으로 답을 말하지 마세요.")
	return sb.String()
}

// BuildAnswerExplanationPrompt asks for a friendly, grade-appropriate
// explanation of a student's follow-up question about the topic.
func BuildAnswerExplanationPrompt(topic, studentQuestion string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("학생이 '%s'에 대해 다음과 같은 질문을 했습니다:\n", topic))
	sb.WriteString(fmt.Sprintf("\"%s\"\n", studentQuestion))
	sb.WriteString("학년 수준에 맞춰 친절하고 이해하기 쉽게 과학적으로 설명해주세요.")
	return sb.String()
}

// BuildFeedbackPrompt asks for a summary of the student's answer, feedback on
// it, and one model answer at the grade's level, flagging missing curriculum
// concepts when the keyword table has them.
func BuildFeedbackPrompt(topic, studentAnswer, gradeLevel, subjectName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("주제: %s\n", topic))
	sb.WriteString(fmt.Sprintf("학생의 답변: \"%s\"\n", studentAnswer))
	if keywords := Concepts(gradeLevel, subjectName); len(keywords) > 0 {
		sb.WriteString(fmt.Sprintf("다음 개념 중 누락된 것이 있다면 보완해주세요: %s.\n", strings.Join(keywords, ", ")))
	}
	sb.WriteString("1. 학생의 답변을 간단히 요약하고,\n")
	sb.WriteString("2. 그에 대한 피드백을 제공하고,\n")
	sb.WriteString("3. 해당 학년 수준에서 적절한 과학 용어를 도입한 예시 답안을 제시해 주세요.\n")
	sb.WriteString("질문의 답이 정해져 있지 않은 열린 질문이라면 다양한 방향의 사고를 유도해주세요.")
	return sb.String()
}

// BuildVerificationPrompt asks whether the topic fits the grade/subject
// curriculum, answered strictly as "예" or "아니오" plus a short reason.
func BuildVerificationPrompt(topic, gradeLevel, subjectName string) string {
	var sb strings.Builder
	sb.WriteString("당신은 중고등학교 과학 교육과정 전문가입니다.\n")
	sb.WriteString("다음 정보가 주어집니다.\n")
	sb.WriteString(fmt.Sprintf("학년: %s\n", gradeLevel))
	sb.WriteString(fmt.Sprintf("과목명: %s\n", subjectName))
	sb.WriteString(fmt.Sprintf("수업 주제: \"%s\"\n\n", topic))
	sb.WriteString("이 수업 주제가 해당 학년과 과목 교육과정에 적절히 포함되어 있는지 판단해 주세요.\n")
	sb.WriteString("적절하다면 \"예\", 적절하지 않다면 \"아니오\"로 간단히 답변하고,\n")
	sb.WriteString("가능하다면 간단한 이유도 덧붙여 주세요.")
	return sb.String()
}
