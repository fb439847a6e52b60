// Copyright (c) 2024 RoseLoverX

package objects

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// Register adds every MTProto service object to reg.
func Register(reg *tl.Registry) {
	reg.Register(
		func() tl.Object { return &ReqPQParams{} },
		func() tl.Object { return &ReqPQMultiParams{} },
		func() tl.Object { return &ReqDHParamsParams{} },
		func() tl.Object { return &SetClientDHParamsParams{} },
		func() tl.Object { return &PingParams{} },
		func() tl.Object { return &PingDelayDisconnectParams{} },
		func() tl.Object { return &RpcDropAnswerParams{} },
		func() tl.Object { return &GetFutureSaltsParams{} },
		func() tl.Object { return &DestroySessionParams{} },
		func() tl.Object { return &ResPQ{} },
		func() tl.Object { return &PQInnerData{} },
		func() tl.Object { return &ServerDHParamsFail{} },
		func() tl.Object { return &ServerDHParamsOk{} },
		func() tl.Object { return &ServerDHInnerData{} },
		func() tl.Object { return &ClientDHInnerData{} },
		func() tl.Object { return &DHGenOk{} },
		func() tl.Object { return &DHGenRetry{} },
		func() tl.Object { return &DHGenFail{} },
		func() tl.Object { return &RpcResult{} },
		func() tl.Object { return &RpcError{} },
		func() tl.Object { return &RpcAnswerUnknown{} },
		func() tl.Object { return &RpcAnswerDroppedRunning{} },
		func() tl.Object { return &RpcAnswerDropped{} },
		func() tl.Object { return &FutureSalt{} },
		func() tl.Object { return &FutureSalts{} },
		func() tl.Object { return &Pong{} },
		func() tl.Object { return &DestroySessionOk{} },
		func() tl.Object { return &DestroySessionNone{} },
		func() tl.Object { return &NewSessionCreated{} },
		func() tl.Object { return &MessageContainer{} },
		func() tl.Object { return &GzipPacked{} },
		func() tl.Object { return &MsgsAck{} },
		func() tl.Object { return &BadMsgNotification{} },
		func() tl.Object { return &BadServerSalt{} },
		func() tl.Object { return &MsgResendReq{} },
		func() tl.Object { return &MsgsStateReq{} },
		func() tl.Object { return &MsgsStateInfo{} },
		func() tl.Object { return &MsgsAllInfo{} },
		func() tl.Object { return &MsgsDetailedInfo{} },
		func() tl.Object { return &MsgsNewDetailedInfo{} },
	)
}
