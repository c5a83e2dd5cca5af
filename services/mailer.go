package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

// MailerConfig carries the SMTP settings. An empty Host switches the
// mailer to log-only mode, which dev and tests rely on.
type MailerConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	PublicURL string
}

// Mailer sends customer notifications from a background goroutine.
// Enqueueing never blocks a request: when the queue is full the message is
// dropped and logged. Delivery failures are logged and swallowed.
type Mailer struct {
	cfg   MailerConfig
	queue chan *gomail.Message
	stop  chan struct{}
}

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.From == "" {
		cfg.From = "no-reply@vite-et-gourmand.test"
	}
	return &Mailer{
		cfg:   cfg,
		queue: make(chan *gomail.Message, 64),
		stop:  make(chan struct{}),
	}
}

func (m *Mailer) Start() {
	go m.run()
}

func (m *Mailer) Stop() {
	close(m.stop)
}

func (m *Mailer) run() {
	var dialer *gomail.Dialer
	if m.cfg.Host != "" {
		dialer = gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	}

	for {
		select {
		case <-m.stop:
			return
		case msg := <-m.queue:
			to := msg.GetHeader("To")
			if dialer == nil {
				utils.InfoLogger.Printf("Mailer (log-only): would send %q to %v", msg.GetHeader("Subject"), to)
				continue
			}
			if err := dialer.DialAndSend(msg); err != nil {
				// Best effort: the triggering operation already committed.
				utils.ErrorLogger.Printf("Mailer: send to %v failed: %v", to, err)
			}
		}
	}
}

func (m *Mailer) enqueue(msg *gomail.Message) {
	select {
	case m.queue <- msg:
	default:
		utils.ErrorLogger.Printf("Mailer: queue full, dropping %q", msg.GetHeader("Subject"))
	}
}

// OrderCreated sends the order confirmation with the price breakdown.
func (m *Mailer) OrderCreated(order *models.Order) {
	if order.User.Email == "" {
		return
	}

	text := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre commande #%d a bien été enregistrée.\n\n"+
			"Menu : %s\n"+
			"Date : %s à %s\n"+
			"Adresse : %s, %s\n"+
			"Personnes : %d\n\n"+
			"Détail prix :\n"+
			"- Prix menu : %s\n"+
			"- Remise : -%s\n"+
			"- Livraison : %s\n"+
			"TOTAL : %s\n\n"+
			"Vite & Gourmand",
		order.User.FirstName,
		order.ID,
		order.Menu.Title,
		order.ServiceDate.Format("02/01/2006"), order.ServiceTime,
		order.ServiceAddress, order.ServiceCity,
		order.PeopleCount,
		utils.FormatEuro(order.MenuPrice),
		utils.FormatEuro(order.Discount),
		utils.FormatEuro(order.DeliveryPrice),
		utils.FormatEuro(order.Total),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", order.User.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Confirmation de votre commande #%d", order.ID))
	msg.SetBody("text/plain", text)

	m.enqueue(msg)
}

// OrderCompleted invites the customer to leave a review.
func (m *Mailer) OrderCompleted(order *models.Order) {
	if order.User.Email == "" {
		return
	}

	link := m.cfg.PublicURL + "/account/orders"
	text := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre commande #%d est maintenant terminée.\n"+
			"Menu : %s\n\n"+
			"Vous pouvez laisser un avis (note 1 à 5 + commentaire) depuis votre espace :\n"+
			"%s\n\n"+
			"Merci,\nVite & Gourmand",
		order.User.FirstName,
		order.ID,
		order.Menu.Title,
		link,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", order.User.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Votre commande #%d est terminée — donnez votre avis", order.ID))
	msg.SetBody("text/plain", text)

	m.enqueue(msg)
}
