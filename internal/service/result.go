package service

// 多步操作的步骤标识
const (
	StepValidate         = "validate"
	StepUploadProof      = "upload_proof"
	StepCreateIdentity   = "create_identity"
	StepInsertInvestment = "insert_investment"
	StepInsertLog        = "insert_log"
	StepAccrueCommission = "accrue_commission"
)

// ActionResult 多步操作的结构化结果
// 调用方依据 OK 与 Step 分支，不解析 Message 文本。
type ActionResult struct {
	OK      bool   `json:"ok"`
	Step    string `json:"step,omitempty"` // 失败发生的步骤，成功时为空
	Message string `json:"message"`
}

// ResultOK 构建成功结果
func ResultOK(message string) ActionResult {
	return ActionResult{OK: true, Message: message}
}

// ResultFail 构建失败结果
func ResultFail(step, message string) ActionResult {
	return ActionResult{OK: false, Step: step, Message: message}
}
