// Package directory keeps the users and chats the session has seen and
// resolves ids against them.
//
// # Dialog ids
//
// Users, basic groups and channels share one signed id space:
//
//	user        id
//	basic group -id
//	channel     -1000000000000 - id
//
// # Capabilities
//
// Directory implements capability.Oracle from the rights stored with each
// chat.
package directory
