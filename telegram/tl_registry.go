// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// Register adds every API type of this package to reg. Types sharing one
// Go struct are registered once per constructor id.
func Register(reg *tl.Registry) {
	reg.Register(
		// peers
		func() tl.Object { return &PeerUser{} },
		func() tl.Object { return &PeerChat{} },
		func() tl.Object { return &PeerChannel{} },
		func() tl.Object { return &InputPeerEmpty{} },
		func() tl.Object { return &InputPeerSelf{} },
		func() tl.Object { return &InputPeerChat{} },
		func() tl.Object { return &InputPeerUser{} },
		func() tl.Object { return &InputPeerChannel{} },
		func() tl.Object { return &InputUserSelf{} },
		func() tl.Object { return &InputUserObj{} },
		func() tl.Object { return &InputChannelEmpty{} },
		func() tl.Object { return &InputChannelObj{} },

		// users
		func() tl.Object { return &UserEmpty{} },
		func() tl.Object { return &UserObj{} },
		func() tl.Object { return &UserProfilePhotoEmpty{} },
		func() tl.Object { return &UserProfilePhotoObj{} },
		func() tl.Object { return &UserStatusEmpty{} },
		func() tl.Object { return &UserStatusOnline{} },
		func() tl.Object { return &UserStatusOffline{} },
		func() tl.Object { return &UserStatusRecently{} },
		func() tl.Object { return &UserStatusLastWeek{} },
		func() tl.Object { return &UserStatusLastMonth{} },
		func() tl.Object { return &RestrictionReason{} },
		func() tl.Object { return &Username{} },
		func() tl.Object { return &EmojiStatusEmpty{} },
		func() tl.Object { return &EmojiStatusObj{} },
		func() tl.Object { return &EmojiStatusUntil{} },
		func() tl.Object { return &PeerColor{} },

		// chats
		func() tl.Object { return &ChatEmpty{} },
		func() tl.Object { return &ChatObj{} },
		func() tl.Object { return &ChatForbidden{} },
		func() tl.Object { return &Channel{} },
		func() tl.Object { return &ChannelForbidden{} },
		func() tl.Object { return &ChatPhotoEmpty{} },
		func() tl.Object { return &ChatPhotoObj{} },
		func() tl.Object { return &ChatAdminRights{} },
		func() tl.Object { return &ChatBannedRights{} },

		// messages
		func() tl.Object { return &MessageEmpty{} },
		func() tl.Object { return &MessageObj{} },
		func() tl.Object { return &MessageService{} },
		func() tl.Object { return &MessageFwdHeader{} },
		func() tl.Object { return &MessageReplyHeaderObj{} },
		func() tl.Object { return &MessageReplyStoryHeader{} },
		func() tl.Object { return &MessageActionEmpty{} },
		func() tl.Object { return &MessageActionChatCreate{} },
		func() tl.Object { return &MessageActionChatEditTitle{} },
		func() tl.Object { return &MessageActionChatAddUser{} },
		func() tl.Object { return &MessageActionChatDeleteUser{} },
		func() tl.Object { return &MessageActionChatJoinedByLink{} },
		func() tl.Object { return &MessageActionPinMessage{} },
		func() tl.Object { return &MessageActionChatJoinedByRequest{} },
		func() tl.Object { return &MessageMediaEmpty{} },
		func() tl.Object { return &MessageMediaUnsupported{} },
		func() tl.Object { return &MessageMediaPhoto{} },
		func() tl.Object { return &MessageMediaDocument{} },
		func() tl.Object { return &PhotoEmpty{} },
		func() tl.Object { return &PhotoObj{} },
		func() tl.Object { return &PhotoSizeEmpty{} },
		func() tl.Object { return &PhotoSizeObj{} },
		func() tl.Object { return &PhotoCachedSize{} },
		func() tl.Object { return &PhotoStrippedSize{} },
		func() tl.Object { return &PhotoSizeProgressive{} },
		func() tl.Object { return &PhotoPathSize{} },
		func() tl.Object { return &VideoSize{} },
		func() tl.Object { return &DocumentEmpty{} },
		func() tl.Object { return &DocumentObj{} },
		func() tl.Object { return &DocumentAttributeImageSize{} },
		func() tl.Object { return &DocumentAttributeAnimated{} },
		func() tl.Object { return &DocumentAttributeHasStickers{} },
		func() tl.Object { return &DocumentAttributeSticker{} },
		func() tl.Object { return &MaskCoords{} },
		func() tl.Object { return &DocumentAttributeVideo{} },
		func() tl.Object { return &DocumentAttributeAudio{} },
		func() tl.Object { return &DocumentAttributeFilename{} },
		func() tl.Object { return &InputStickerSetEmpty{} },
		func() tl.Object { return &InputStickerSetID{} },
		func() tl.Object { return &InputStickerSetShortName{} },
		func() tl.Object { return &ReplyKeyboardHide{} },
		func() tl.Object { return &ReplyKeyboardForceReply{} },
		func() tl.Object { return &ReplyKeyboardMarkup{} },
		func() tl.Object { return &ReplyInlineMarkup{} },
		func() tl.Object { return &KeyboardButtonRow{} },
		func() tl.Object { return &KeyboardButtonObj{} },
		func() tl.Object { return &KeyboardButtonURL{} },
		func() tl.Object { return &KeyboardButtonCallback{} },
		func() tl.Object { return &KeyboardButtonSwitchInline{} },
		func() tl.Object { return &MessageReplies{} },
		func() tl.Object { return &MessageReactions{} },
		func() tl.Object { return &ReactionCount{} },
		func() tl.Object { return &MessagePeerReaction{} },
		func() tl.Object { return &ReactionEmpty{} },
		func() tl.Object { return &ReactionEmoji{} },
		func() tl.Object { return &ReactionCustomEmoji{} },

		// updates
		func() tl.Object { return &UpdateNewMessage{} },
		func() tl.Object { return &UpdateNewChannelMessage{} },
		func() tl.Object { return &UpdateEditMessage{} },
		func() tl.Object { return &UpdateEditChannelMessage{} },
		func() tl.Object { return &UpdateDeleteMessages{} },
		func() tl.Object { return &UpdateDeleteChannelMessages{} },
		func() tl.Object { return &UpdateUserStatus{} },
		func() tl.Object { return &UpdateBotCallbackQuery{} },
		func() tl.Object { return &UpdateInlineBotCallbackQuery{} },
		func() tl.Object { return &UpdateBotInlineQuery{} },
		func() tl.Object { return &UpdateBotInlineSend{} },
		func() tl.Object { return &UpdateMessagePollVote{} },
		func() tl.Object { return &UpdateChatParticipant{} },
		func() tl.Object { return &UpdateChannelParticipant{} },
		func() tl.Object { return &UpdateBotChatInviteRequester{} },
		func() tl.Object { return &UpdateChannelTooLong{} },
		func() tl.Object { return &InputBotInlineMessageIDObj{} },
		func() tl.Object { return &InputBotInlineMessageID64{} },
		func() tl.Object { return &GeoPointEmpty{} },
		func() tl.Object { return &GeoPointObj{} },
		func() tl.Object { return &ChatParticipantObj{} },
		func() tl.Object { return &ChatParticipantCreator{} },
		func() tl.Object { return &ChatParticipantAdmin{} },
		func() tl.Object { return &ChannelParticipantObj{} },
		func() tl.Object { return &ChannelParticipantSelf{} },
		func() tl.Object { return &ChannelParticipantCreator{} },
		func() tl.Object { return &ChannelParticipantAdmin{} },
		func() tl.Object { return &ChannelParticipantBanned{} },
		func() tl.Object { return &ChannelParticipantLeft{} },
		func() tl.Object { return &ChatInviteExported{} },
		func() tl.Object { return &ChatInvitePublicJoinRequests{} },
		func() tl.Object { return &UpdatesObj{} },
		func() tl.Object { return &UpdatesCombined{} },
		func() tl.Object { return &UpdateShort{} },
		func() tl.Object { return &UpdatesTooLong{} },
		func() tl.Object { return &UpdateShortMessage{} },
		func() tl.Object { return &UpdateShortChatMessage{} },
		func() tl.Object { return &UpdateShortSentMessage{} },
		func() tl.Object { return &UpdatesState{} },
		func() tl.Object { return &UpdatesDifferenceEmpty{} },
		func() tl.Object { return &UpdatesDifferenceObj{} },
		func() tl.Object { return &UpdatesDifferenceObj{Slice: true} },
		func() tl.Object { return &UpdatesDifferenceTooLong{} },
		func() tl.Object { return &ChannelMessagesFilterEmpty{} },
		func() tl.Object { return &ChannelMessagesFilterObj{} },
		func() tl.Object { return &MessageRange{} },
		func() tl.Object { return &UpdatesChannelDifferenceEmpty{} },
		func() tl.Object { return &UpdatesChannelDifferenceObj{} },

		// upload, auth & help
		func() tl.Object { return &UploadFileObj{} },
		func() tl.Object { return &UploadFileCdnRedirect{} },
		func() tl.Object { return &UploadCdnFileObj{} },
		func() tl.Object { return &UploadCdnFileReuploadNeeded{} },
		func() tl.Object { return &FileHash{} },
		func() tl.Object { return &InputFileObj{} },
		func() tl.Object { return &InputFileBig{} },
		func() tl.Object { return &InputPhotoFileLocation{} },
		func() tl.Object { return &InputDocumentFileLocation{} },
		func() tl.Object { return &InputPeerPhotoFileLocation{} },
		func() tl.Object { return &AuthExportedAuthorization{} },
		func() tl.Object { return &ContactsResolvedPeer{} },
		func() tl.Object { return &CdnConfig{} },
		func() tl.Object { return &CdnPublicKey{} },
	)

	registerKinds(reg, entityKinds, func(kind uint32) tl.Object { return &MessageEntity{Kind: kind} })
	registerKinds(reg, inlineQueryPeerKinds, func(kind uint32) tl.Object { return &InlineQueryPeerTypeObj{Kind: kind} })
	registerKinds(reg, storageFileKinds, func(kind uint32) tl.Object { return &StorageFileType{Kind: kind} })
}

func registerKinds(reg *tl.Registry, kinds []uint32, ctor func(uint32) tl.Object) {
	for _, kind := range kinds {
		kind := kind
		reg.Register(func() tl.Object { return ctor(kind) })
	}
}
