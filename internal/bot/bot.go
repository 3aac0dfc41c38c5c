package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/danielholmes839/eetlijst-bot/internal/eetlijst"
	"github.com/danielholmes839/eetlijst-bot/internal/report"
)

// Parser is the part of an eetlijst.Parser the bot reads from.
type Parser interface {
	Registry() *eetlijst.Registry
	Attendance() eetlijst.Attendance
	Ratios() (eetlijst.MetricSeries, error)
	Costs() (eetlijst.MetricSeries, error)
	Points() (eetlijst.MetricSeries, error)
	Balance() (eetlijst.MetricSeries, error)
	SubmitByName(ctx context.Context, name string, status eetlijst.AttendanceStatus) (eetlijst.Transmission, error)
}

// ParserFactory logs in to eetlijst. Every command gets a fresh parser so
// replies always show the current list.
type ParserFactory func(ctx context.Context) (Parser, error)

var statusChoices = map[string]eetlijst.AttendanceStatus{
	"eet":  eetlijst.EATING,
	"kook": eetlijst.COOKING,
	"nop":  eetlijst.ABSENT,
}

var commands = []*discordgo.ApplicationCommand{
	{Name: "eetlijst", Description: "Wie kookt, wie eet mee en wie moet zich nog inschrijven"},
	{Name: "kok", Description: "Wie kookt er vandaag, of wie zou moeten koken"},
	{Name: "kookpunten", Description: "Kookpunten per persoon"},
	{Name: "kosten", Description: "Gemiddelde kosten per maaltijd per kok"},
	{Name: "verhouding", Description: "Verhouding koken/eten per persoon"},
	{Name: "saldo", Description: "Saldo per persoon"},
	{
		Name:        "ik",
		Description: "Schrijf jezelf in voor vandaag",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "status",
				Description: "Eet je mee, kook je, of eet je niet mee?",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "eet mee", Value: "eet"},
					{Name: "kook", Value: "kook"},
					{Name: "eet niet mee", Value: "nop"},
				},
			},
		},
	},
}

type Bot struct {
	ApplicationID string
	GuildID       string
	NewParser     ParserFactory
	Players       map[string]string // map of eetlijst name -> discord id
	Logger        *slog.Logger
}

func (b *Bot) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Command is a slash command with the bits of the interaction it needs.
type Command struct {
	Name   string
	Status string
	UserID string
}

// Reply builds the answer to a command. Any eetlijst error is logged and
// answered with report.Unavailable, never with a partial reply.
func (b *Bot) Reply(ctx context.Context, cmd Command) string {
	start := time.Now()

	content, err := b.reply(ctx, cmd)
	if err != nil {
		var userErr userError
		if errors.As(err, &userErr) {
			return userErr.msg
		}
		b.logger().Error("failed to handle command", "command", cmd.Name, "err", err)
		return report.Unavailable
	}

	b.logger().Info("successfully handled command", "command", cmd.Name, "dur", time.Since(start).String())
	return content
}

// userError is a mistake the user can fix, its message is the reply.
type userError struct {
	msg string
}

func (e userError) Error() string {
	return e.msg
}

func (b *Bot) reply(ctx context.Context, cmd Command) (string, error) {
	var status eetlijst.AttendanceStatus
	if cmd.Name == "ik" {
		s, ok := statusChoices[cmd.Status]
		if !ok {
			return "", userError{fmt.Sprintf("Onbekende status %q, kies eet, kook of nop.", cmd.Status)}
		}
		status = s
	}

	parser, err := b.NewParser(ctx)
	if err != nil {
		return "", err
	}

	mention := report.Mentions(b.Players)

	switch cmd.Name {
	case "eetlijst":
		return report.Today(parser.Attendance(), mention), nil
	case "kok":
		ratios, err := parser.Ratios()
		if err != nil {
			return "", err
		}
		return report.Cook(parser.Attendance(), ratios, mention), nil
	case "kookpunten":
		return series(parser.Points, report.Points)
	case "kosten":
		return series(parser.Costs, report.Costs)
	case "verhouding":
		return series(parser.Ratios, report.Ratios)
	case "saldo":
		return series(parser.Balance, report.Balance)
	case "ik":
		return b.submit(ctx, parser, cmd.UserID, status)
	}

	return "", fmt.Errorf("unknown command %q", cmd.Name)
}

func series(extract func() (eetlijst.MetricSeries, error), format func(eetlijst.MetricSeries) string) (string, error) {
	s, err := extract()
	if err != nil {
		return "", err
	}
	return format(s), nil
}

func (b *Bot) submit(ctx context.Context, parser Parser, userID string, status eetlijst.AttendanceStatus) (string, error) {
	name, ok := parser.Registry().NameForExternalID(userID)
	if !ok {
		return "", userError{"Je discord account is niet gekoppeld aan een naam op de eetlijst."}
	}

	sent, err := parser.SubmitByName(ctx, name, status)
	if err != nil {
		return "", err
	}

	b.logger().Info("submitted eetlijst update", "name", name, "status", string(status), "day", sent.Day)
	return report.Sent(name, sent), nil
}

func commandFromInteraction(i *discordgo.InteractionCreate) Command {
	data := i.ApplicationCommandData()
	cmd := Command{Name: data.Name}

	for _, option := range data.Options {
		if option.Name == "status" {
			cmd.Status = option.StringValue()
		}
	}

	if i.Member != nil && i.Member.User != nil {
		cmd.UserID = i.Member.User.ID
	} else if i.User != nil {
		cmd.UserID = i.User.ID
	}
	return cmd
}

func (b *Bot) HandleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger().Error("failed to acknowledge command", "err", err)
		return
	}

	content := b.Reply(context.Background(), commandFromInteraction(i))

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		b.logger().Error("failed to send reply", "err", err)
	}
}

func (b *Bot) RegisterCommands(dg *discordgo.Session) error {
	for _, cmd := range commands {
		_, err := dg.ApplicationCommandCreate(b.ApplicationID, b.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("registering /%s: %w", cmd.Name, err)
		}
	}
	return nil
}

// Run connects to discord and serves commands until ctx is done.
func (b *Bot) Run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return err
	}

	if err := b.RegisterCommands(dg); err != nil {
		return err
	}

	dg.AddHandler(b.HandleInteractionCreate)

	err = dg.Open()
	if err != nil {
		return err
	}
	defer dg.Close()

	b.logger().Info("the bot is running!")
	<-ctx.Done()
	return nil
}
