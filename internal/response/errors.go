package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrNotSurveyOwner  ErrCode = "NOT_SURVEY_OWNER"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrActionForbidden  ErrCode = "ACTION_FORBIDDEN"

	// ─── Survey-specific ───────────────────────────────────────────────
	ErrSurveyInactive     ErrCode = "SURVEY_INACTIVE"
	ErrSurveyNotDraft     ErrCode = "SURVEY_NOT_DRAFT"
	ErrSurveyNotActive    ErrCode = "SURVEY_NOT_ACTIVE"
	ErrNoQuestions        ErrCode = "NO_QUESTIONS"
	ErrCustomQuestionCap  ErrCode = "CUSTOM_QUESTION_LIMIT"
	ErrCriticalQuestion   ErrCode = "CRITICAL_QUESTION"
	ErrAnswerRequired     ErrCode = "ANSWER_REQUIRED"
	ErrSessionClosed      ErrCode = "SESSION_CLOSED"
	ErrIncompleteResponse ErrCode = "INCOMPLETE_RESPONSE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal  ErrCode = "INTERNAL_ERROR"
	ErrTransient ErrCode = "TRANSIENT_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Correo o contraseña incorrectos."
	case ErrSessionActive:
		return "Ya tienes una sesión activa en otro dispositivo."
	case ErrSessionInvalidated:
		return "Tu sesión ha finalizado. Inicia sesión nuevamente."
	case ErrTokenRequired:
		return "Se requiere un token de autenticación."
	case ErrTokenInvalid:
		return "El token de autenticación no es válido."
	case ErrTokenExpired:
		return "El token de autenticación ha expirado."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No tienes permiso para acceder a este recurso."
	case ErrNotSurveyOwner:
		return "Esta encuesta pertenece a otra empresa."
	case ErrAdminAccessOnly:
		return "Este recurso es exclusivo para administradores."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "La validación falló. Revisa los datos ingresados."
	case ErrInvalidID:
		return "El formato del ID no es válido."
	case ErrInvalidPayload:
		return "El cuerpo de la solicitud no es válido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."
	case ErrConflict:
		return "El recurso ya existe."
	case ErrDependencyExists:
		return "No se puede eliminar porque otros datos dependen de este recurso."
	case ErrActionForbidden:
		return "Esta acción no está permitida."

	// ─── Survey-specific ───────────────────────────────────────────────
	case ErrSurveyInactive:
		return "Esta encuesta ya no está disponible."
	case ErrSurveyNotDraft:
		return "La encuesta no está en estado BORRADOR."
	case ErrSurveyNotActive:
		return "La encuesta no está activa."
	case ErrNoQuestions:
		return "La encuesta no tiene preguntas."
	case ErrCustomQuestionCap:
		return "Se alcanzó el límite de preguntas personalizadas."
	case ErrCriticalQuestion:
		return "Las preguntas críticas no se pueden desactivar ni eliminar."
	case ErrAnswerRequired:
		return "Debes responder la pregunta actual antes de continuar."
	case ErrSessionClosed:
		return "Esta respuesta ya fue enviada y no se puede modificar."
	case ErrIncompleteResponse:
		return "La respuesta está incompleta. Faltan preguntas por contestar."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "Debes adjuntar un archivo."
	case ErrUnsupportedFile:
		return "Tipo de archivo no soportado."
	case ErrFileTooLarge:
		return "El archivo excede el tamaño permitido."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intenta nuevamente más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	case ErrTransient:
		return "Error temporal. Puedes reintentar el envío."
	default:
		return "Ocurrió un error inesperado."
	}
}
