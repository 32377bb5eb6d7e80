package common

import (
	"errors"
	"fmt"

	"xpslots/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
	System      bool   // Whether the failure is ours rather than the user's
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for system issues (storage, payment gateway outages, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Err:         err,
		System:      true,
	}
}

// FromDomainError translates a service error into a BotError
func FromDomainError(err error, action string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	var userMessage string
	switch {
	case errors.Is(err, entities.ErrInvalidBet), errors.Is(err, entities.ErrInvalidAmount):
		userMessage = "The amount must be a positive number of XP."
	case errors.Is(err, entities.ErrInsufficientFunds), errors.Is(err, entities.ErrInsufficientBalance):
		userMessage = "You don't have enough XP for that. Use /buy to top up."
	case errors.Is(err, entities.ErrBalanceOverflow):
		userMessage = "That amount is too large for your balance."
	case errors.Is(err, entities.ErrBelowMinimumCashout):
		userMessage = fmt.Sprintf("The minimum cashout is %s XP.", FormatXP(entities.MinCashoutXP))
	case errors.Is(err, entities.ErrUnknownPackage):
		userMessage = "That package doesn't exist."
	case errors.Is(err, entities.ErrPaymentFailed):
		userMessage = "Your payment did not go through. No XP was credited."
	case errors.Is(err, entities.ErrPaymentGatewayRejection):
		userMessage = "The payment service rejected the request."
	case errors.Is(err, entities.ErrEmptyCatalog):
		userMessage = "The slot machine has no tokens loaded."
	default:
		return NewSystemError(err, action+" failed")
	}

	return &BotError{
		UserMessage: userMessage,
		LogMessage:  action + " rejected",
		Err:         err,
	}
}

// RespondWithError sends an ephemeral error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs a command failure and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	botErr := FromDomainError(err, "command")

	fields := log.Fields{
		"command":      i.ApplicationCommandData().Name,
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
	}
	if user := InteractionUser(i); user != nil {
		fields["user_id"] = user.ID
	}
	if botErr.System {
		log.WithFields(fields).Error(botErr.LogMessage)
	} else {
		log.WithFields(fields).Info(botErr.LogMessage)
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}
