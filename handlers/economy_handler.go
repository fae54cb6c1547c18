package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"modbot/bot"
	"modbot/economy"
	"modbot/utils"
)

// HandleDaily claims the once-per-day reward.
func HandleDaily(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID := interactionUserID(i)
	res, err := b.Ledger.ClaimDaily(userID)
	if err != nil {
		var claimed *economy.AlreadyClaimedError
		if errors.As(err, &claimed) {
			utils.SendErrorResponse(s, i, fmt.Sprintf("You already claimed today. Next claim <t:%d:R>.", claimed.NextEligible.Unix()))
			return
		}
		replyInternalError(s, i, b, "Economy", "daily", err)
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("💰 You claimed **%d** tokens! New balance: **%d**.", res.Reward, res.NewBalance))
}

// HandleBalance shows the caller's account.
func HandleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID := interactionUserID(i)
	acc, err := b.Ledger.Account(userID)
	if err != nil {
		replyInternalError(s, i, b, "Economy", "balance", err)
		return
	}
	utils.SendEphemeralResponse(s, i, fmt.Sprintf("Tokens: **%d** · Luck: **%d** · W/L: %d/%d",
		acc.Tokens, acc.LuckPoints, acc.TotalWins, acc.TotalLosses))
}

// HandleCoinFlip wagers tokens on a coin flip.
func HandleCoinFlip(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i.ApplicationCommandData().Options)
	side, ok := stringOption(opts, "side")
	if !ok {
		rejectMissingOption(s, i, "side")
		return
	}
	bet, ok := intOption(opts, "bet")
	if !ok {
		rejectMissingOption(s, i, "bet")
		return
	}

	res, err := b.Ledger.CoinFlip(interactionUserID(i), side, bet)
	if err != nil {
		var funds *economy.InsufficientFundsError
		switch {
		case errors.As(err, &funds):
			utils.SendErrorResponse(s, i, fmt.Sprintf("You only have **%d** tokens.", funds.Balance))
		case errors.Is(err, economy.ErrInvalidAmount):
			utils.SendErrorResponse(s, i, "The bet must be at least 1 token.")
		default:
			replyInternalError(s, i, b, "Economy", "coinflip", err)
		}
		return
	}

	outcome := "lost"
	if res.Won {
		outcome = "won"
	}
	msg := fmt.Sprintf("🪙 The coin landed on **%s** — you %s **%d** tokens! Balance: **%d** · Luck: **%d**",
		res.ResultSide, outcome, res.Bet, res.NewBalance, res.NewLuck)
	if res.LuckBonus > 0 {
		msg += fmt.Sprintf(" (luck bonus %.1f%%)", res.LuckBonus*100)
	}
	utils.SendPublicResponse(s, i, msg)
}

// HandleTransfer moves tokens between players.
func HandleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i.ApplicationCommandData().Options)
	recipientOpt, ok := opts["recipient"]
	if !ok || recipientOpt.Type != discordgo.ApplicationCommandOptionUser {
		rejectMissingOption(s, i, "recipient")
		return
	}
	amount, ok := intOption(opts, "amount")
	if !ok {
		rejectMissingOption(s, i, "amount")
		return
	}
	recipient := recipientOpt.UserValue(s)
	if recipient == nil {
		utils.SendErrorResponse(s, i, "Unknown recipient.")
		return
	}

	res, err := b.Ledger.Transfer(interactionUserID(i), recipient.ID, recipient.Bot, amount)
	if err != nil {
		var funds *economy.InsufficientFundsError
		switch {
		case errors.Is(err, economy.ErrSelfTransfer):
			utils.SendErrorResponse(s, i, "You cannot transfer tokens to yourself.")
		case errors.Is(err, economy.ErrBotTarget):
			utils.SendErrorResponse(s, i, "Bots cannot hold tokens.")
		case errors.Is(err, economy.ErrInvalidAmount):
			utils.SendErrorResponse(s, i, "The amount must be at least 1 token.")
		case errors.As(err, &funds):
			utils.SendErrorResponse(s, i, fmt.Sprintf("You only have **%d** tokens.", funds.Balance))
		default:
			replyInternalError(s, i, b, "Economy", "transfer", err)
		}
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("✅ Sent **%d** tokens to %s. Your balance: **%d**.",
		amount, recipient.Mention(), res.NewSenderBalance))
}

// HandlePray rolls for luck points.
func HandlePray(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	res, err := b.Ledger.Pray(interactionUserID(i))
	if err != nil {
		var cd *economy.CooldownError
		if errors.As(err, &cd) {
			utils.SendErrorResponse(s, i, fmt.Sprintf("Still on cooldown. Try again <t:%d:R>.", cd.NextEligible.Unix()))
			return
		}
		replyInternalError(s, i, b, "Economy", "pray", err)
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("🙏 You gained **%d** luck (total **%d**). Next pray <t:%d:R>.",
		res.LuckGained, res.NewLuckTotal, res.CooldownUntil.Unix()))
}

// HandleLeaderboard shows the richest players.
func HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	limit := 10
	if v, ok := intOption(optionMap(i.ApplicationCommandData().Options), "limit"); ok {
		limit = int(v)
	}

	top, err := b.Ledger.Leaderboard(limit)
	if err != nil {
		replyInternalError(s, i, b, "Economy", "leaderboard", err)
		return
	}
	if len(top) == 0 {
		utils.SendEphemeralResponse(s, i, "Nobody has any tokens yet.")
		return
	}

	var sb strings.Builder
	for idx, acc := range top {
		fmt.Fprintf(&sb, "%d. <@%s> — **%d** tokens\n", idx+1, acc.UserID, acc.Tokens)
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Token Leaderboard",
		Color:       0xF1C40F,
		Description: sb.String(),
	})
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// replyInternalError logs an unexpected failure and gives the user a
// generic message. Never retried, never fatal.
func replyInternalError(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, module, operation string, err error) {
	log.Printf("Error in %s/%s: %v", module, operation, err)
	utils.LogError(s, b.Config.LogChannelID, module, operation, err.Error())
	utils.SendErrorResponse(s, i, "Something went wrong. Please try again.")
}
