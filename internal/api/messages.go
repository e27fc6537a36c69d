package api

// Response messages. Auth and validation messages are returned to the
// client verbatim; storage failures always collapse to the generic
// internal error message.
const (
	MessageOK      = "ok"
	MessageCreated = "Created"

	MessageSignupSuccess         = "Signup successfully"
	MessageLoginSuccess          = "Login successfully"
	MessageLoginFailed           = "Wrong username or password, please try again"
	MessageChangePasswordSuccess = "Change password successfully"
	MessagePasswordNotMatch      = "Old password does not match"
	MessageAccountInactive       = "User account is inactive"
	MessageAccountActivated      = "Account activated"
	MessageUsernameExists        = "Username already exist"

	MessageUnauthorized = "Unauthorized"
	MessageTokenMissing = "Token missing"
	MessageTokenExpired = "Token has expired"
	MessageInvalidToken = "Invalid token"

	MessageNotFound         = "Not found"
	MessageUserNotFound     = "User not found"
	MessageHardwareNotFound = "Hardware not found"
	MessageNodeNotFound     = "Node not found"
	MessageSensorNotFound   = "Sensor not found"

	MessageInvalidPayload       = "Invalid payload"
	MessageHardwareTypeNotValid = "Hardware type not valid"
	MessageSensorTypeNotValid   = "Sensor type not valid"
	MessageNodeHardwareIsSensor = "Node hardware cannot be a sensor"
	MessageSensorLengthMismatch = "Sensor ids and sensor names must have the same length"
	MessageInternalServerError  = "Internal Server Error"
)
