// Copyright (c) 2024 RoseLoverX

package mtproto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/transport"
)

var (
	// ErrConnectionClosed fails every request still waiting when the
	// connection goes away.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrTransportCode wraps the negative codes the server sends instead of
	// a packet, see transport.ErrCode.
	ErrTransportCode = errors.New("transport error")
	// ErrAuthKeyInvalid is returned when the server no longer knows the key.
	ErrAuthKeyInvalid = errors.New("auth key invalid (code -404)")
)

// ErrResponseCode is an rpc_error returned by the server.
type ErrResponseCode struct {
	Code           int64
	Message        string
	Description    string
	AdditionalInfo any // some errors has additional data like timeout seconds, dc id etc.
}

func (e *ErrResponseCode) Error() string {
	return fmt.Sprintf("[%s] %s (code %d)", e.Message, e.Description, e.Code)
}

// RpcErrorToNative converts an rpc_error into *ErrResponseCode.
func RpcErrorToNative(r *objects.RpcError, method ...string) error {
	nativeErrorName, additionalData := TryExpandError(r.ErrorMessage)

	desc, ok := errorMessages[nativeErrorName]
	if !ok {
		desc = nativeErrorName
	}

	if additionalData != nil && strings.Contains(desc, "%v") {
		desc = fmt.Sprintf(desc, additionalData)
	}

	if len(method) > 0 {
		desc = fmt.Sprintf("%s (method: %s)", desc, strings.Join(method, ", "))
	}

	return &ErrResponseCode{
		Code:           int64(r.ErrorCode),
		Message:        nativeErrorName,
		Description:    desc,
		AdditionalInfo: additionalData,
	}
}

type prefixSuffix struct {
	prefix string
	suffix string
}

// errors carrying a number in their name
var specificErrors = []prefixSuffix{
	{"EMAIL_UNCONFIRMED_", ""},
	{"FILE_MIGRATE_", ""},
	{"FILE_PART_", "_MISSING"},
	{"FLOOD_TEST_PHONE_WAIT_", ""},
	{"FLOOD_WAIT_", ""},
	{"FLOOD_PREMIUM_WAIT_", ""},
	{"INPUT_FETCH_ERROR_", ""},
	{"INTERDC_", "_CALL_ERROR"},
	{"INTERDC_", "_CALL_RICH_ERROR"},
	{"NETWORK_MIGRATE_", ""},
	{"PASSWORD_TOO_FRESH_", ""},
	{"PHONE_MIGRATE_", ""},
	{"SESSION_TOO_FRESH_", ""},
	{"SLOWMODE_WAIT_", ""},
	{"STATS_MIGRATE_", ""},
	{"TAKEOUT_INIT_DELAY_", ""},
	{"USER_MIGRATE_", ""},
}

// TryExpandError splits FLOOD_WAIT_42 into FLOOD_WAIT_X and 42. Errors
// without a number are returned unchanged with nil data.
func TryExpandError(errStr string) (nativeErrorName string, additionalData any) {
	for _, errCase := range specificErrors {
		if !strings.HasPrefix(errStr, errCase.prefix) || !strings.HasSuffix(errStr, errCase.suffix) {
			continue
		}
		trimmed := strings.TrimSuffix(strings.TrimPrefix(errStr, errCase.prefix), errCase.suffix)
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			continue
		}
		return errCase.prefix + "X" + errCase.suffix, n
	}
	return errStr, nil
}

// IsFloodWait reports the wait a FLOOD_WAIT_X (or FLOOD_PREMIUM_WAIT_X,
// SLOWMODE_WAIT_X) error asks for.
func IsFloodWait(err error) (time.Duration, bool) {
	var rpcErr *ErrResponseCode
	if !errors.As(err, &rpcErr) {
		return 0, false
	}
	switch rpcErr.Message {
	case "FLOOD_WAIT_X", "FLOOD_PREMIUM_WAIT_X", "FLOOD_TEST_PHONE_WAIT_X", "SLOWMODE_WAIT_X":
	default:
		return 0, false
	}
	seconds, ok := rpcErr.AdditionalInfo.(int)
	if !ok {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// MatchError reports whether err is an rpc error with one of names. Names
// of numbered errors are given in their X form, e.g. "FILE_MIGRATE_X".
func MatchError(err error, names ...string) bool {
	var rpcErr *ErrResponseCode
	if !errors.As(err, &rpcErr) {
		return false
	}
	for _, name := range names {
		if rpcErr.Message == name {
			return true
		}
	}
	return false
}

// MigrateTarget returns the datacenter a *_MIGRATE_X error points to.
func MigrateTarget(err error) (int, bool) {
	if !MatchError(err, "PHONE_MIGRATE_X", "USER_MIGRATE_X", "NETWORK_MIGRATE_X", "FILE_MIGRATE_X", "STATS_MIGRATE_X") {
		return 0, false
	}
	var rpcErr *ErrResponseCode
	errors.As(err, &rpcErr)
	dc, ok := rpcErr.AdditionalInfo.(int)
	return dc, ok
}

func transportError(err error) error {
	var code transport.ErrCode
	if !errors.As(err, &code) {
		return err
	}
	if code == -404 {
		return errors.Wrap(ErrAuthKeyInvalid, code.Error())
	}
	return errors.Wrap(ErrTransportCode, code.Error())
}

// descriptions of the errors this package and its callers branch on
var errorMessages = map[string]string{
	"API_ID_INVALID":             "API ID invalid.",
	"API_ID_PUBLISHED_FLOOD":     "This API ID was published somewhere, you can't use it now.",
	"AUTH_BYTES_INVALID":         "The provided authorization is invalid.",
	"AUTH_KEY_DUPLICATED":        "The authorization key was used under two different IP addresses simultaneously and is now invalid.",
	"AUTH_KEY_INVALID":           "The Authorization Key is invalid.",
	"AUTH_KEY_PERM_EMPTY":        "The method is unavailable for temporary authorization keys, not bound to permanent.",
	"AUTH_KEY_UNREGISTERED":      "The key is not registered in the system.",
	"AUTH_RESTART":               "Restart the authorization process.",
	"BOT_METHOD_INVALID":         "The API access for bot users is restricted. This method cannot be executed as a bot.",
	"CDN_METHOD_INVALID":         "You can't call this method in a CDN DC.",
	"CDN_UPLOAD_TIMEOUT":         "A server-side timeout occurred while reuploading the file to the CDN DC.",
	"CHANNEL_INVALID":            "The provided channel is invalid.",
	"CHANNEL_PRIVATE":            "You haven't joined this channel/supergroup.",
	"CHAT_ID_INVALID":            "The provided chat id is invalid.",
	"CONNECTION_API_ID_INVALID":  "The provided API id is invalid.",
	"CONNECTION_LAYER_INVALID":   "Layer invalid.",
	"CONNECTION_NOT_INITED":      "Connection not initialized.",
	"DC_ID_INVALID":              "The provided DC ID is invalid.",
	"FILE_ID_INVALID":            "The provided file id is invalid.",
	"FILE_PARTS_INVALID":         "The number of file parts is invalid.",
	"FILE_PART_EMPTY":            "The provided file part is empty.",
	"FILE_PART_INVALID":          "The file part number is invalid.",
	"FILE_PART_SIZE_INVALID":     "The provided file part size is invalid.",
	"FILE_PART_TOO_BIG":          "The uploaded file part is too big.",
	"FILE_REFERENCE_EMPTY":       "An empty file reference was specified.",
	"FILE_REFERENCE_EXPIRED":     "File reference expired, it must be refetched.",
	"FILE_REFERENCE_INVALID":     "The specified file reference is invalid.",
	"FILE_TOKEN_INVALID":         "The specified file token is invalid.",
	"INPUT_FETCH_FAIL":           "Failed deserializing TL payload.",
	"INPUT_METHOD_INVALID":       "The specified method is invalid.",
	"LIMIT_INVALID":              "The provided limit is invalid.",
	"LOCATION_INVALID":           "The provided location is invalid.",
	"MESSAGE_ID_INVALID":         "The provided message id is invalid.",
	"MSG_ID_INVALID":             "Invalid message ID provided.",
	"OFFSET_INVALID":             "The provided offset is invalid.",
	"PEER_ID_INVALID":            "The provided peer id is invalid.",
	"RPC_CALL_FAIL":              "Telegram is having internal issues, please try again later.",
	"RPC_MCGET_FAIL":             "Telegram is having internal issues, please try again later.",
	"SESSION_EXPIRED":            "The authorization has expired.",
	"SESSION_PASSWORD_NEEDED":    "2FA is enabled, use a password to login.",
	"SESSION_REVOKED":            "The authorization has been invalidated, because of the user terminating all sessions.",
	"TIMEOUT":                    "A timeout occurred while fetching data from the worker.",
	"USERNAME_INVALID":           "The provided username is not valid.",
	"USERNAME_NOT_OCCUPIED":      "The provided username is not occupied.",
	"USER_DEACTIVATED":           "The current account was deleted by the user.",
	"USER_DEACTIVATED_BAN":       "The current account was deleted and banned by Telegram.",
	"VOLUME_LOC_NOT_FOUND":       "The volume location can't be found.",
	"WORKER_BUSY_TOO_LONG_RETRY": "Telegram workers are too busy to respond immediately.",

	// Errors with additional data
	"EMAIL_UNCONFIRMED_X":       "Email unconfirmed, the length of the code must be %v.",
	"FILE_MIGRATE_X":            "The file to be accessed is currently stored in DC %v.",
	"FILE_PART_X_MISSING":       "Part %v of the file is missing from storage.",
	"FLOOD_PREMIUM_WAIT_X":      "A wait of %v seconds is required before calling the method.",
	"FLOOD_TEST_PHONE_WAIT_X":   "A wait of %v seconds is required in the test servers.",
	"FLOOD_WAIT_X":              "Please wait %v seconds before repeating the action.",
	"INPUT_FETCH_ERROR_X":       "An error occurred while deserializing TL parameters: %v.",
	"INTERDC_X_CALL_ERROR":      "An error occurred while communicating with DC %v.",
	"INTERDC_X_CALL_RICH_ERROR": "A rich error occurred while communicating with DC %v.",
	"NETWORK_MIGRATE_X":         "The source IP address is associated with DC %v.",
	"PASSWORD_TOO_FRESH_X":      "The password was modified less than 24 hours ago, try again in %v seconds.",
	"PHONE_MIGRATE_X":           "The phone number a user is trying to use for authorization is associated with DC %v.",
	"SESSION_TOO_FRESH_X":       "This session was created less than 24 hours ago, try again in %v seconds.",
	"SLOWMODE_WAIT_X":           "Slowmode is enabled in this chat: wait %v seconds before sending another message to this chat.",
	"STATS_MIGRATE_X":           "The channel statistics must be fetched from DC %v.",
	"TAKEOUT_INIT_DELAY_X":      "Sorry, for security reasons, you will be able to begin downloading your data in %v seconds.",
	"USER_MIGRATE_X":            "The user whose identity is being used to execute queries is associated with DC %v.",
}

type BadMsgError struct {
	*objects.BadMsgNotification
	Description string
}

func BadMsgErrorFromNative(in *objects.BadMsgNotification) *BadMsgError {
	return &BadMsgError{
		BadMsgNotification: in,
		Description:        badMsgErrorCodes[BadSystemMessageCode(in.Code)],
	}
}

func (e *BadMsgError) Error() string {
	return fmt.Sprintf("%v (code %v)", e.Description, e.Code)
}

type BadSystemMessageCode int32

const (
	ErrBadMsgUnknown             BadSystemMessageCode = 0
	ErrBadMsgIdTooLow            BadSystemMessageCode = 16
	ErrBadMsgIdTooHigh           BadSystemMessageCode = 17
	ErrBadMsgIncorrectMsgIdBits  BadSystemMessageCode = 18
	ErrBadMsgWrongContainerMsgId BadSystemMessageCode = 19 // this must never happen
	ErrBadMsgMessageTooOld       BadSystemMessageCode = 20
	ErrBadMsgSeqNoTooLow         BadSystemMessageCode = 32
	ErrBadMsgSeqNoTooHigh        BadSystemMessageCode = 33
	ErrBadMsgSeqNoExpectedEven   BadSystemMessageCode = 34
	ErrBadMsgSeqNoExpectedOdd    BadSystemMessageCode = 35
	ErrBadMsgServerSaltIncorrect BadSystemMessageCode = 48
	ErrBadMsgInvalidContainer    BadSystemMessageCode = 64
)

// https://core.telegram.org/mtproto/service_messages_about_messages#notice-of-ignored-error-message
var badMsgErrorCodes = map[BadSystemMessageCode]string{
	ErrBadMsgIdTooLow:            "msg_id too low, client time is probably wrong",
	ErrBadMsgIdTooHigh:           "msg_id too high, client time is probably wrong",
	ErrBadMsgIncorrectMsgIdBits:  "incorrect two lower order msg_id bits",
	ErrBadMsgWrongContainerMsgId: "container msg_id is the same as msg_id of a previously received message",
	ErrBadMsgMessageTooOld:       "message too old",
	ErrBadMsgSeqNoTooLow:         "msg_seqno too low",
	ErrBadMsgSeqNoTooHigh:        "msg_seqno too high",
	ErrBadMsgSeqNoExpectedEven:   "an even msg_seqno expected, but odd received",
	ErrBadMsgSeqNoExpectedOdd:    "odd msg_seqno expected, but even received",
	ErrBadMsgServerSaltIncorrect: "incorrect server salt",
	ErrBadMsgInvalidContainer:    "invalid container",
}
