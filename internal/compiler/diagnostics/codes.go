package diagnostics

// Diagnostic codes reported by the routing and projection passes.
const (
	CodeParamDuplicateType      = "operation-param-duplicate-type"
	CodeOptionalPathParam       = "optional-path-param"
	CodeDuplicateBody           = "duplicate-body"
	CodeMissingPathParam        = "missing-path-param"
	CodeDuplicateOperation      = "duplicate-operation"
	CodeDuplicateRouteDecorator = "duplicate-route-decorator"
	CodeDecoratorWrongTarget    = "decorator-wrong-target"
	CodeVerbMissingWithBody     = "http-verb-missing-with-body"
	CodeNoRoutes                = "no-routes"
)

// Message ids for codes with more than one message.
const (
	MessageBodyAndUnannotated = "bodyAndUnannotated"
	MessageOperation          = "operation"
	MessageInterface          = "interface"
	MessageNamespace          = "namespace"
)

const defaultMessage = "default"

type definition struct {
	severity Severity
	messages map[string]string
}

var catalog = map[string]definition{
	CodeParamDuplicateType: {
		severity: Error,
		messages: map[string]string{
			defaultMessage: "Param {paramName} has multiple types: [{types}]",
		},
	},
	CodeOptionalPathParam: {
		severity: Error,
		messages: map[string]string{
			defaultMessage: "Path parameter '{paramName}' cannot be optional without a default value.",
		},
	},
	CodeDuplicateBody: {
		severity: Error,
		messages: map[string]string{
			defaultMessage:            "Operation has multiple @body parameters declared",
			MessageBodyAndUnannotated: "Operation has a @body and an unannotated parameter. There can only be one representing the body",
		},
	},
	CodeMissingPathParam: {
		severity: Error,
		messages: map[string]string{
			defaultMessage: "Path contains parameter {param} but wasn't found in given parameters",
		},
	},
	CodeDuplicateOperation: {
		severity: Error,
		messages: map[string]string{
			defaultMessage: "Duplicate operation \"{operationName}\" routed at \"{verb} {path}\".",
		},
	},
	CodeDuplicateRouteDecorator: {
		severity: Error,
		messages: map[string]string{
			MessageOperation: "@route was defined twice on this operation.",
			MessageInterface: "@route was defined twice on this interface.",
			MessageNamespace: "@route was defined twice on this namespace and has different values.",
		},
	},
	CodeDecoratorWrongTarget: {
		severity: Error,
		messages: map[string]string{
			defaultMessage: "Cannot apply {decorator} decorator to {to}",
		},
	},
	CodeVerbMissingWithBody: {
		severity: Warning,
		messages: map[string]string{
			defaultMessage: "Operation {operationName} has a body but doesn't specify a verb.",
		},
	},
	CodeNoRoutes: {
		severity: Warning,
		messages: map[string]string{
			defaultMessage: "Current spec is not exposing any routes. Mark a namespace as the service to expose its operations.",
		},
	},
}
