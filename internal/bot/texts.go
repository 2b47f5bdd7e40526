package bot

// Quick-reply labels. Conversation steps compare replies against these
// verbatim, so they double as accepted text inputs.
const (
	labelYes     = "Yes"
	labelNo      = "No"
	labelSkip    = "Skip"
	labelCancel  = "Cancel"
	labelEnable  = "Enable"
	labelDisable = "Disable"

	// resetPhrase must be typed exactly to confirm a full wipe.
	resetPhrase = "Delete"
)

// Settings menu entries.
const (
	settingListSize = "List size"
	settingRadius   = "Search radius"
	settingFriends  = "Friend places"
)

const (
	textStart = "Hi! I keep geo notes: send me places with a title, a photo and a location, " +
		"then share your position to find what is saved nearby. Send /help for the full command list."

	textHelp = `What I can do:
/add - save a new place
/list [n] - show your latest places
/search - find a saved place
/delete - delete one of your places
/add_friend - share your places with a friend
/delete_friend - stop sharing with a friend
/settings - list size, search radius, friend places
/reset_all - erase everything I know about you

Share a location at any time and I will list the saved places around it.`

	textUnknown = "I did not get that. Send /help to see the commands I understand."

	textCancelled = "Okay, cancelled."
	textTryLater  = "Something went wrong, please try again later."

	textAskTitle    = "What is the place called?"
	textAskPhoto    = "Send a photo of the place, or Skip."
	textAskLocation = "Now send the place's geoposition, or Skip."
	textAskConfirm  = "Save this place?"
	textPlaceSaved  = "Saved."
	textPlaceNotSaved = "Discarded."
	textWantPhotoOrSkip    = "I need a photo here, or Skip."
	textWantLocationOrSkip = "I need a geoposition here, or Skip."
	textWantYesOrNo        = "Please answer Yes or No."

	textNoPlaces      = "You have no saved places yet."
	textNothingNearby = "No saved places around this point."

	textAskWhichSetting = "Which setting do you want to change?"
	textAskListSize     = "Send the new list size (a number greater than zero)."
	textAskRadius       = "Send the new search radius in meters."
	textAskFriends      = "Show places saved by your friends?"
	textBadNumber       = "That is not a valid number, try again."
	textSettingSaved    = "Setting updated."

	textResetConfirm = "This erases all your places, friends and settings. " +
		"Type " + resetPhrase + " to confirm."
	textResetDone      = "All your data is gone."
	textResetCancelled = "Nothing was deleted."

	textAskWhichPlace  = "Which place?"
	textPlaceGone      = "That place does not exist anymore."
	textPlaceDeleted   = "Deleted."

	textAskContact      = "Share the contact of the friend you want to see your places."
	textWantContact     = "I need a shared contact here, or Cancel."
	textContactNoID     = "That contact is not linked to a Telegram account, I cannot add them."
	textFriendAdded     = "Done, they can now see your places."
	textAlreadyFriend   = "They are already your friend."
	textNoFriends       = "You have no friends added yet."
	textAskWhichFriend  = "Which friend do you want to remove?"
	textFriendRemoved   = "Removed, they no longer see your places."
	textFriendGone      = "They are not in your friend list."

	textDenied = "This command is not available to you."
)
