package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	CodeTemplateReadError  Code = "TEMPLATE_READ_ERROR"
	CodeTemplateParseError Code = "TEMPLATE_PARSE_ERROR"
	CodeTemplateValidation Code = "TEMPLATE_VALIDATION_ERROR"

	CodeGraphAPIError    Code = "GRAPH_API_ERROR"
	CodeGraphAuthError   Code = "GRAPH_AUTH_ERROR"
	CodeGraphThrottled   Code = "GRAPH_THROTTLED"
	CodeGraphDecodeError Code = "GRAPH_DECODE_ERROR"

	CodeReconcileError        Code = "RECONCILE_ERROR"
	CodeReplaceLeftAbsent     Code = "REPLACE_LEFT_OBJECT_ABSENT"
	CodeReportRenderError     Code = "REPORT_RENDER_ERROR"
	CodeKindNotRegistered     Code = "KIND_NOT_REGISTERED"
	CodeKindAlreadyRegistered Code = "KIND_ALREADY_REGISTERED"
)

func (c Code) String() string {
	return string(c)
}
