package scitalk

import "strings"

// curriculumKeywords maps a curriculum key (middle-school grade science or a
// high-school subject of the 2022 revised curriculum) to its key concept
// phrases, in curriculum order. Loaded once at startup, never mutated.
var curriculumKeywords = map[string][]string{
	"중1 과학":      {"물질의 상태 변화", "기체의 성질", "소화와 순환", "지권의 변화", "빛과 파동"},
	"중2 과학":      {"화학 변화", "전기 회로", "운동과 에너지", "호흡과 배설", "기후와 날씨"},
	"중3 과학":      {"유전과 진화", "원자와 이온", "힘과 운동", "에너지 전환", "지구와 우주"},
	"통합과학1":      {"물질의 구성", "힘과 운동", "지구 시스템", "생명 시스템"},
	"통합과학2":      {"에너지 전환", "화학 반응", "생명 유지", "지구 변화"},
	"과학탐구실험1":    {"실험 설계", "변인 통제", "자료 해석", "오차 분석"},
	"과학탐구실험2":    {"융합 실험", "자료 처리", "과학적 탐구", "실험 보고서 작성"},
	"물리학":        {"운동 법칙", "힘과 에너지", "파동과 소리", "전자기 유도"},
	"화학":         {"원자 구조", "화학 결합", "산과 염기", "화학 반응식"},
	"생명과학":       {"세포 구조", "광합성", "유전 원리", "생태계 평형"},
	"지구과학":       {"판 구조론", "대기와 해양", "별과 은하", "지구 내부 구조"},
	"역학과 에너지":    {"운동량 보존", "일과 에너지", "운동의 기술적 응용"},
	"전자기와 양자":    {"전기장과 자기장", "전자기 유도", "양자역학 기초"},
	"물질과 에너지":    {"물질의 상태 변화", "열역학 법칙", "에너지 보존"},
	"화학 반응의 세계":  {"화학 반응 종류", "반응 속도", "평형과 역반응"},
	"세포와 물질대사":   {"세포 소기관", "ATP와 에너지 대사", "효소 작용"},
	"생물의 유전":     {"DNA 복제", "염색체와 유전자", "유전 질환"},
	"지구시스템과학":    {"지권 순환", "물질의 순환", "지구 시스템 상호작용"},
	"행성우주과학":     {"태양계", "우주 팽창", "외계 행성 탐사"},
	"과학의 역사와 문화": {"과학 혁명", "동양과 서양 과학 비교", "과학의 사회적 역할"},
	"기후변화와 환경생태": {"온실 효과", "생물 다양성", "지속 가능성"},
	"융합과학탐구":     {"융합적 문제 해결", "과학기술과 사회", "과학적 의사결정"},
}

// GradeHighSchool is the grade level that unlocks the high-school subject
// selector; the middle-school grades map to a single fixed science subject.
const GradeHighSchool = "고등학교"

var gradeLevels = []string{"중1", "중2", "중3", GradeHighSchool}

// highSchoolSubjects lists the selectable high-school subjects, in the order
// teachers see them in the form.
var highSchoolSubjects = []string{
	"통합과학1", "통합과학2", "과학탐구실험1", "과학탐구실험2",
	"물리학", "화학", "생명과학", "지구과학",
	"역학과 에너지", "전자기와 양자", "물질과 에너지", "화학 반응의 세계",
	"세포와 물질대사", "생물의 유전", "지구시스템과학", "행성우주과학",
	"과학의 역사와 문화", "기후변화와 환경생태", "융합과학탐구",
}

// GradeLevels returns the selectable grade levels.
func GradeLevels() []string {
	return append([]string(nil), gradeLevels...)
}

// HighSchoolSubjects returns the selectable high-school subjects.
func HighSchoolSubjects() []string {
	return append([]string(nil), highSchoolSubjects...)
}

// IsHighSchool reports whether the grade level uses the subject selector.
func IsHighSchool(gradeLevel string) bool {
	return gradeLevel == GradeHighSchool
}

// SubjectFor returns the fixed subject for a middle-school grade. High-school
// grades pick from HighSchoolSubjects instead, so it returns "".
func SubjectFor(gradeLevel string) string {
	if gradeLevel == "" || IsHighSchool(gradeLevel) {
		return ""
	}
	return gradeLevel + " 과학"
}

// conceptKey resolves the keyword table key for a grade/subject pair.
// Middle-school grades share one science subject per grade; high-school
// entries are keyed by subject name.
func conceptKey(gradeLevel, subjectName string) string {
	if strings.HasPrefix(gradeLevel, "중") {
		return gradeLevel + " 과학"
	}
	return subjectName
}

// Concepts returns the key concept phrases for the given grade and subject,
// in curriculum order. Unknown pairs yield an empty list, never an error.
func Concepts(gradeLevel, subjectName string) []string {
	return curriculumKeywords[conceptKey(gradeLevel, subjectName)]
}
