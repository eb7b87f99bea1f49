package domain

// RequireAuthorized gates every protected tool call. It reads the auth record
// from the session state, rehydrating the whole conversation snapshot from the
// registry when the session looks unauthenticated and the caller supplied a
// conversation identifier. Recovery is the designed normal path for stateless
// transports, not an error path.
//
// It returns the verified auth record and the normalized conversation
// identifier, which is empty when the caller never supplied one — in that
// case recovery is impossible and every call stands alone.
func RequireAuthorized(state *SessionState, registry ConversationRegistry, conversationID string) (AuthRecord, string, error) {
	resolved := NormalizeConversationID(conversationID)

	data := state.Snapshot()
	if !data.Authenticated() && resolved != "" && registry != nil {
		if snapshot, ok := registry.Restore(resolved); ok {
			state.Replace(snapshot)
			data = state.Snapshot()
		}
	}

	if !data.Authenticated() {
		return AuthRecord{}, resolved, ErrUnauthorized
	}
	return *data.Auth, resolved, nil
}
