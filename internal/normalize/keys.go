package normalize

// Source keys accepted for every Spec field. The first key is the canonical
// snake_case name; the rest are legacy localized names still emitted by
// older prompts.
var (
	keySummary      = []string{"one_line_summary", "한_줄_요약"}
	keyProblemFrame = []string{"problem_frame", "문제정의_5칸"}
	keyInterview    = []string{"interview_mode", "인터뷰_모드"}
	keyRoles        = []string{"users_and_roles", "사용자_역할"}
	keyFeatures     = []string{"core_features", "핵심_기능"}
	keyFlow         = []string{"user_flow_steps", "화면_흐름_5단계"}
	keyInputFields  = []string{"input_fields", "입력_데이터_필드"}
	keyPermissions  = []string{"permission_matrix", "권한_규칙"}
	keyAmbiguities  = []string{"ambiguities", "예외_모호한_점"}
	keyRisks        = []string{"risks", "리스크_함정_3개"}
	keyTests        = []string{"test_scenarios", "테스트_시나리오_3개"}
	keyNext         = []string{"next_steps_today", "오늘_할_일_3개"}
	keyRequests     = []string{"request_converter", "수정요청_변환"}
	keyImpact       = []string{"impact_preview", "변경_영향도"}
	keyLayerGuide   = []string{"layer_guide", "레이어_가이드"}
	keyCompleteness = []string{"completeness", "완성도_진단"}

	keyWho     = []string{"who", "누가"}
	keyWhen    = []string{"when", "언제"}
	keyWhat    = []string{"what", "무엇을"}
	keyWhy     = []string{"why", "왜"}
	keySuccess = []string{"success_criteria", "success", "성공기준"}

	keyFollowUps = []string{"follow_up_questions", "questions", "추가_질문_3개"}
	keyMust      = []string{"must", "필수"}
	keyNice      = []string{"nice_to_have", "있으면_좋음"}
	keyMissing   = []string{"missing_information", "부족한_정보"}
	keyQuestions = []string{"questions", "확인_질문_3개"}

	keyRole        = []string{"role", "역할"}
	keyDescription = []string{"description", "설명"}
	keyName        = []string{"name", "이름"}
	keyType        = []string{"type", "타입"}
	keyExample     = []string{"example", "예시"}
	keyRead        = []string{"read", "조회"}
	keyCreate      = []string{"create", "생성"}
	keyUpdate      = []string{"update", "수정"}
	keyDelete      = []string{"delete", "삭제"}
	keyNotes       = []string{"notes", "비고"}

	keyOriginal = []string{"original", "원문"}
	keyShort    = []string{"short", "짧은_요청"}
	keyStandard = []string{"standard", "표준_요청"}
	keyDetailed = []string{"detailed", "상세_요청"}

	keyScreens     = []string{"screens", "화면"}
	keyImpactPerms = []string{"permissions", "권한"}
	keyImpactTests = []string{"tests", "테스트"}
	keyScore       = []string{"score", "점수_0_100"}
	keyWarnings    = []string{"warnings", "누락_경고"}
	keyLayer       = []string{"layer", "레이어"}
	keyGoal        = []string{"goal", "목표"}
	keyOutput      = []string{"output", "출력"}
)
