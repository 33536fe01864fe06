package profile

// SavePlan describes what a save attempt must do before the profile
// call itself: ask for re-authentication, upload a pending avatar, or
// both.
type SavePlan struct {
	NeedsReauth   bool
	AvatarPending bool
}

// PlanSave inspects the draft against its snapshot and decides the save
// preconditions. The caller runs the confirmation prompt and the avatar
// upload; a cancelled prompt means no remote call and no state change.
func PlanSave(draft, snapshot Draft, hasLocalPassword bool) SavePlan {
	return SavePlan{
		NeedsReauth:   ReauthRequired(draft, snapshot, hasLocalPassword),
		AvatarPending: draft.Avatar != "" && draft.Avatar != snapshot.Avatar,
	}
}
