package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var urgencyColors = map[domain.Urgency]template.CSS{
	domain.UrgencyLow:    "#10b981",
	domain.UrgencyMedium: "#f59e0b",
	domain.UrgencyHigh:   "#ef4444",
}

var statusColors = map[domain.TicketStatus]template.CSS{
	domain.TicketStatusOpen:       "#3b82f6",
	domain.TicketStatusInProgress: "#f59e0b",
	domain.TicketStatusFinalized:  "#10b981",
}

const fallbackColor template.CSS = "#6b7280"

// Composer renders the notification emails.
type Composer struct {
	tmpl    *template.Template
	rich    *RichText
	baseURL string
}

// NewComposer parses the embedded templates. publicURL is used to build
// links back to the application.
func NewComposer(publicURL string) (*Composer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Composer{
		tmpl:    tmpl,
		rich:    NewRichText(),
		baseURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

type ticketView struct {
	Number         string
	RequesterName  string
	RequesterEmail string
	Location       string
	ProblemType    string
	Urgency        string
	UrgencyColor   template.CSS
	Status         string
	StatusColor    template.CSS
	Description    template.HTML
	ImageURL       string
	TechnicianName string
	AdminURL       string
	TrackURL       string
	RatingURL      string
}

func (c *Composer) view(ticket domain.Ticket) (ticketView, error) {
	description, err := c.rich.Render(ticket.Description)
	if err != nil {
		return ticketView{}, err
	}
	v := ticketView{
		Number:         ticket.TicketNumber,
		RequesterName:  ticket.RequesterName,
		RequesterEmail: ticket.RequesterEmail,
		Location:       ticket.Location,
		ProblemType:    ticket.ProblemType.Label(),
		Urgency:        strings.ToUpper(string(ticket.Urgency)),
		UrgencyColor:   colorOr(urgencyColors[ticket.Urgency]),
		Status:         ticket.Status.Label(),
		StatusColor:    colorOr(statusColors[ticket.Status]),
		Description:    description,
		AdminURL:       c.baseURL + "/admin",
		TrackURL:       c.baseURL + "/acompanhar/" + ticket.TicketNumber,
		RatingURL:      c.baseURL + "/avaliar/" + ticket.TicketNumber,
	}
	if ticket.ImageURL != nil {
		v.ImageURL = *ticket.ImageURL
	}
	return v, nil
}

// NewTicket is the staff alert for a freshly submitted ticket.
func (c *Composer) NewTicket(to string, ticket domain.Ticket) (Message, error) {
	v, err := c.view(ticket)
	if err != nil {
		return Message{}, err
	}
	subject := fmt.Sprintf("🔧 Novo Chamado #%s - %s", ticket.TicketNumber, ticket.ProblemType.Label())
	text := fmt.Sprintf("Novo chamado #%s\nSolicitante: %s <%s>\nLocalidade: %s\nTipo: %s\nUrgência: %s\n\n%s",
		ticket.TicketNumber, ticket.RequesterName, ticket.RequesterEmail, ticket.Location,
		v.ProblemType, v.Urgency, ticket.Description)
	return c.render("new_ticket", to, subject, text, v)
}

// Confirmation acknowledges receipt to the requester.
func (c *Composer) Confirmation(ticket domain.Ticket) (Message, error) {
	v, err := c.view(ticket)
	if err != nil {
		return Message{}, err
	}
	subject := fmt.Sprintf("✓ Chamado #%s Recebido", ticket.TicketNumber)
	text := fmt.Sprintf("Olá %s,\n\nSeu chamado #%s foi recebido com sucesso.\nLocalidade: %s\nTipo: %s\nUrgência: %s",
		ticket.RequesterName, ticket.TicketNumber, ticket.Location, v.ProblemType, v.Urgency)
	return c.render("confirmation", ticket.RequesterEmail, subject, text, v)
}

// StatusChange tells the requester the ticket moved to a new status.
// technician may be nil.
func (c *Composer) StatusChange(ticket domain.Ticket, technician *domain.Technician) (Message, error) {
	v, err := c.view(ticket)
	if err != nil {
		return Message{}, err
	}
	if technician != nil {
		v.TechnicianName = technician.Name
	}
	subject := fmt.Sprintf("📋 Chamado #%s - Status: %s", ticket.TicketNumber, v.Status)
	text := fmt.Sprintf("Olá %s,\n\nO status do chamado #%s foi atualizado para: %s",
		ticket.RequesterName, ticket.TicketNumber, v.Status)
	if v.TechnicianName != "" {
		text += "\nResponsável: " + v.TechnicianName
	}
	return c.render("status_change", ticket.RequesterEmail, subject, text, v)
}

// RatingRequest invites the requester to rate a finalized ticket.
func (c *Composer) RatingRequest(ticket domain.Ticket) (Message, error) {
	v, err := c.view(ticket)
	if err != nil {
		return Message{}, err
	}
	subject := fmt.Sprintf("⭐ Avalie o Serviço - Chamado #%s", ticket.TicketNumber)
	text := fmt.Sprintf("Olá %s,\n\nO serviço referente ao chamado #%s foi finalizado.\nAvalie o atendimento: %s",
		ticket.RequesterName, ticket.TicketNumber, v.RatingURL)
	return c.render("rating_request", ticket.RequesterEmail, subject, text, v)
}

// TechnicianAssigned notifies the technician made responsible for ticket.
func (c *Composer) TechnicianAssigned(ticket domain.Ticket, technician domain.Technician) (Message, error) {
	if technician.Email == nil || *technician.Email == "" {
		return Message{}, fmt.Errorf("technician %s has no email", technician.ID)
	}
	v, err := c.view(ticket)
	if err != nil {
		return Message{}, err
	}
	v.TechnicianName = technician.Name
	subject := fmt.Sprintf("🛠️ Chamado #%s atribuído a você", ticket.TicketNumber)
	text := fmt.Sprintf("Olá %s,\n\nVocê foi designado como responsável pelo chamado #%s (%s, %s).",
		technician.Name, ticket.TicketNumber, ticket.Location, v.ProblemType)
	return c.render("technician_assigned", *technician.Email, subject, text, v)
}

// Test is the SMTP configuration check message.
func (c *Composer) Test(to string, sentAt time.Time) (Message, error) {
	data := struct{ SentAt string }{SentAt: sentAt.Format("02/01/2006 15:04:05")}
	text := "Este é um e-mail de teste do Sistema de Manutenção Sesc Guará."
	return c.render("test_email", to, "Teste de E-mail - Sistema de Manutenção", text, data)
}

func (c *Composer) render(name, to, subject, text string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s email: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTML: buf.String(), Text: text}, nil
}

func colorOr(color template.CSS) template.CSS {
	if color == "" {
		return fallbackColor
	}
	return color
}
