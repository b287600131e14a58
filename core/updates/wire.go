package updates

import "messenger-core/core/wire"

// FromWire turns an updates container into a batch: users first, then
// chats, then the updates in server order. Update types nobody consumes are
// left out.
func FromWire(res wire.Updates) Batch {
	var batch Batch
	if len(res.Users) > 0 {
		batch = append(batch, Update{Kind: KindUsers, Payload: res.Users})
	}
	if len(res.Chats) > 0 {
		batch = append(batch, Update{Kind: KindChats, Payload: res.Chats})
	}
	for _, u := range res.Updates {
		switch u.Type {
		case wire.UpdateNewMessage, wire.UpdateNewChannelMessage:
			if u.Message != nil {
				batch = append(batch, Update{Kind: KindMessage, Payload: u.Message})
			}
		case wire.UpdateNewAuthorization:
			if u.Authorization != nil {
				batch = append(batch, Update{Kind: KindAuthorization, Payload: *u.Authorization})
			}
		}
	}
	return batch
}
