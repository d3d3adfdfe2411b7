package service

import "errors"

// 服务层哨兵错误，处理器据此映射业务状态码
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrEmailExists        = errors.New("邮箱已被占用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrProfileDisabled    = errors.New("账号已停用")
	ErrReferrerNotFound   = errors.New("上线档案不存在")
	ErrAmountInvalid      = errors.New("金额无效")
	ErrLoginLinkInvalid   = errors.New("登录链接无效或已过期")
	ErrWithdrawNotPending = errors.New("提现申请已处理")
	ErrUploadRequired     = errors.New("缺少凭证文件")
	ErrPermissionDenied   = errors.New("无权执行该操作")
)
