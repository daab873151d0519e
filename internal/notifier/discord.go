package notifier

import (
	"fmt"
	"log"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/config"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/models"
	"github.com/bwmarrin/discordgo"
)

type Notifier interface {
	NotifyReservation(event string, reservation models.Reservation) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord bot token or channel ID not configured")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, err
	}

	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
	}, nil
}

func (n *DiscordNotifier) NotifyReservation(event string, reservation models.Reservation) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	noteStr := ""
	if reservation.Notes != "" {
		noteStr = fmt.Sprintf("\n**Notes:** %s", reservation.Notes)
	}

	message := fmt.Sprintf("🏠 **Reservation %s**\n**Guest:** %s\n**Platform:** %s\n**Dates:** %s - %s\n**Guests:** %d adults, %d children%s",
		event,
		reservation.GuestName,
		reservation.Platform,
		reservation.CheckIn.Format("2006-01-02"),
		reservation.CheckOut.Format("2006-01-02"),
		reservation.Adults,
		reservation.Children,
		noteStr,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
