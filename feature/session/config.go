package session

import "time"

// Config holds the settings of the owning session.
type Config struct {
	// MyUserID is the id of the logged in user.
	MyUserID int64 `mapstructure:"my_user_id" default:"0"`
	// AutoconfirmPeriodSeconds is how long a new login waits for
	// confirmation before the server confirms it.
	AutoconfirmPeriodSeconds int `mapstructure:"autoconfirm_period_seconds" default:"604800"`
	// MaxTopicTitleLength limits forum topic titles, in characters.
	MaxTopicTitleLength int `mapstructure:"max_topic_title_length" default:"128"`
}

// AutoconfirmPeriod returns the autoconfirm period as a duration.
func (c Config) AutoconfirmPeriod() time.Duration {
	return time.Duration(c.AutoconfirmPeriodSeconds) * time.Second
}
