package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Pronouns(t *testing.T) {
	assert.Equal(t, Pronouns{Subject: "he", Possessive: "his", RoleNoun: "actor"}, Profile{Role: RoleActor}.Pronouns())
	assert.Equal(t, Pronouns{Subject: "she", Possessive: "her", RoleNoun: "actress"}, Profile{Role: RoleActress}.Pronouns())
}

func TestScoreAndMoney_UnknownCountsAsZero(t *testing.T) {
	assert.Equal(t, 0, Score{}.Int())
	assert.Equal(t, 87, KnownScore(87).Int())

	assert.Equal(t, int64(0), Money{}.Int())
	assert.False(t, Money{}.Positive())
	assert.False(t, KnownMoney(0).Positive())
	assert.True(t, KnownMoney(500).Positive())
}
