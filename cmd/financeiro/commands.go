package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/services"
	"financeiro/internal/session"
)

const dateLayout = "2006-01-02"

// requireUser resolves the active session or fails the command.
func requireUser(app *appContext) (*session.User, error) {
	user, err := app.session.Current(app.ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("nenhum usuário autenticado, use 'financeiro login'")
	}
	return user, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q, use o formato AAAA-MM-DD", s)
	}
	return t, nil
}

// validationError flattens field messages into one command error.
func validationError(v core.ValidationResult) error {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("%s: %s", field, v.Fields[field]))
	}
	return fmt.Errorf("dados inválidos:\n  %s", strings.Join(lines, "\n  "))
}

func printTransaction(tx core.Transaction) {
	cat := core.CategoryByID(tx.CategoryID)
	sign := "+"
	if tx.Type == core.Expense {
		sign = "-"
	}
	fmt.Printf("%s  %s%s  %s  %s %s  [%s]\n",
		tx.Date.Format(dateLayout), sign, core.FormatBRL(tx.Value),
		tx.Description, cat.Icon, cat.Name, tx.ID)
}

type initCmd struct{}

func (c *initCmd) Run(app *appContext) error {
	if err := app.session.SeedTestUser(app.ctx); err != nil {
		return err
	}
	fmt.Printf("Backend %s pronto. Conta de teste: %s / %s\n",
		app.cfg.DataBackend, session.TestUserEmail, session.TestUserPassword)
	return nil
}

type registerCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `arg:"" help:"Password."`
}

func (c *registerCmd) Run(app *appContext) error {
	user, err := app.session.Register(app.ctx, c.Email, c.Password)
	if err != nil {
		return err
	}
	fmt.Printf("Conta criada e sessão aberta para %s (%s)\n", user.Email, user.UID)
	return nil
}

type loginCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `arg:"" help:"Password."`
}

func (c *loginCmd) Run(app *appContext) error {
	user, err := app.session.Login(app.ctx, c.Email, c.Password)
	if err != nil {
		return err
	}
	fmt.Printf("Sessão aberta para %s\n", user.Email)
	return nil
}

type logoutCmd struct{}

func (c *logoutCmd) Run(app *appContext) error {
	if err := app.session.Logout(app.ctx); err != nil {
		return err
	}
	fmt.Println("Sessão encerrada")
	return nil
}

type whoamiCmd struct{}

func (c *whoamiCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s), desde %s\n", user.Email, user.UID, user.CreatedAt.Format(dateLayout))
	return nil
}

type addCmd struct {
	Description string `arg:"" help:"What the money was for."`
	Value       string `arg:"" help:"Amount, e.g. 12,50 or 12.50."`

	Type     string `default:"expense" enum:"income,expense" help:"income or expense."`
	Category string `default:"10" help:"Category id (1-10)."`
	Date     string `help:"Transaction date as AAAA-MM-DD. Defaults to today."`
	Receipt  string `help:"Receipt URI to attach."`
}

func (c *addCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	value, err := core.ParseValue(c.Value)
	if err != nil {
		return fmt.Errorf("%s: %q", core.MsgValueNumeric, c.Value)
	}

	date := time.Now()
	if c.Date != "" {
		if date, err = parseDate(c.Date); err != nil {
			return err
		}
	}

	tx := core.Transaction{
		Description: c.Description,
		Value:       value,
		Type:        core.TransactionType(c.Type),
		CategoryID:  c.Category,
		Date:        date,
	}

	result, err := app.transactions.Create(app.ctx, user.UID, tx, c.Receipt)
	if err != nil {
		return err
	}
	if !result.Validation.Valid {
		return validationError(result.Validation)
	}

	fmt.Printf("Transação criada: %s\n", result.ID)
	return nil
}

type updateCmd struct {
	ID string `arg:"" help:"Transaction id."`

	Description *string `help:"New description."`
	Value       *string `help:"New amount."`
	Type        *string `help:"New type: income or expense."`
	Category    *string `help:"New category id."`
	Date        *string `help:"New date as AAAA-MM-DD."`
	Receipt     *string `help:"New receipt URI (empty string detaches)."`
}

func (c *updateCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	var patch core.TransactionPatch
	patch.Description = c.Description
	if c.Value != nil {
		value, err := core.ParseValue(*c.Value)
		if err != nil {
			return fmt.Errorf("%s: %q", core.MsgValueNumeric, *c.Value)
		}
		patch.Value = &value
	}
	if c.Type != nil {
		t := core.TransactionType(*c.Type)
		patch.Type = &t
	}
	patch.CategoryID = c.Category
	if c.Date != nil {
		date, err := parseDate(*c.Date)
		if err != nil {
			return err
		}
		patch.Date = &date
	}
	patch.ReceiptURL = c.Receipt

	if patch.IsZero() {
		return fmt.Errorf("nada para atualizar: informe ao menos um campo")
	}

	result, err := app.transactions.Update(app.ctx, user.UID, c.ID, patch)
	if err != nil {
		return err
	}
	if !result.Validation.Valid {
		return validationError(result.Validation)
	}

	fmt.Printf("Transação atualizada: %s\n", c.ID)
	return nil
}

type deleteCmd struct {
	ID string `arg:"" help:"Transaction id."`
}

func (c *deleteCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}
	if err := app.transactions.Delete(app.ctx, user.UID, c.ID); err != nil {
		return err
	}
	fmt.Printf("Transação removida: %s\n", c.ID)
	return nil
}

type listCmd struct {
	Type     string `enum:",income,expense" default:"" help:"Filter by type."`
	Category string `help:"Filter by category id."`
	From     string `help:"Inclusive start date as AAAA-MM-DD."`
	To       string `help:"Inclusive end date as AAAA-MM-DD."`
	Cursor   string `help:"Continue a previous listing from this cursor."`
	PageSize int    `help:"Page size. Defaults to PAGE_SIZE from the environment."`
}

func (c *listCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	filters := services.Filters{
		Type:       core.TransactionType(c.Type),
		CategoryID: c.Category,
	}
	if c.From != "" {
		if filters.StartDate, err = parseDate(c.From); err != nil {
			return err
		}
	}
	if c.To != "" {
		if filters.EndDate, err = parseDate(c.To); err != nil {
			return err
		}
	}

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = app.cfg.PageSize
	}

	page, err := app.query.List(app.ctx, user.UID, filters, c.Cursor, pageSize)
	if err != nil {
		return err
	}

	if len(page.Transactions) == 0 {
		fmt.Println("Nenhuma transação encontrada")
		return nil
	}
	for _, tx := range page.Transactions {
		printTransaction(tx)
	}
	if page.HasMore {
		fmt.Printf("Mais resultados: --cursor=%s\n", page.NextCursor)
	}
	return nil
}

type showCmd struct {
	ID string `arg:"" help:"Transaction id."`
}

func (c *showCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	tx, err := app.transactions.Get(app.ctx, user.UID, c.ID)
	if err != nil {
		return err
	}

	cat := core.CategoryByID(tx.CategoryID)
	fmt.Printf("ID:          %s\n", tx.ID)
	fmt.Printf("Descrição:   %s\n", tx.Description)
	fmt.Printf("Valor:       %s\n", core.FormatBRL(tx.Value))
	fmt.Printf("Tipo:        %s\n", tx.Type)
	fmt.Printf("Categoria:   %s %s\n", cat.Icon, cat.Name)
	fmt.Printf("Data:        %s\n", tx.Date.Format(dateLayout))
	if tx.ReceiptURL != "" {
		fmt.Printf("Comprovante: %s (%s)\n", tx.ReceiptURL, tx.ReceiptPath)
	}
	fmt.Printf("Criada em:   %s\n", tx.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Alterada em: %s\n", tx.UpdatedAt.Format(time.RFC3339))
	return nil
}

type summaryCmd struct {
	From string `help:"Inclusive start date as AAAA-MM-DD. Defaults to the first day of the current month."`
	To   string `help:"Inclusive end date as AAAA-MM-DD. Defaults to today."`
}

func (c *summaryCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now
	if c.From != "" {
		if from, err = parseDate(c.From); err != nil {
			return err
		}
	}
	if c.To != "" {
		if to, err = parseDate(c.To); err != nil {
			return err
		}
	}

	summary, err := app.summary.Summarize(app.ctx, user.UID, from, to)
	if err != nil {
		return err
	}

	fmt.Printf("Período:  %s a %s\n", from.Format(dateLayout), to.Format(dateLayout))
	fmt.Printf("Receitas: %s\n", core.FormatBRL(summary.TotalIncome))
	fmt.Printf("Despesas: %s\n", core.FormatBRL(summary.TotalExpense))
	fmt.Printf("Saldo:    %s\n", core.FormatBRL(summary.Balance))

	if len(summary.CategoryTotals) == 0 {
		return nil
	}
	fmt.Println("\nPor categoria:")
	ids := make([]string, 0, len(summary.CategoryTotals))
	for id := range summary.CategoryTotals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		cat := core.CategoryByID(id)
		totals := summary.CategoryTotals[id]
		fmt.Printf("  %s %-15s receitas %s, despesas %s\n",
			cat.Icon, cat.Name, core.FormatBRL(totals.Income), core.FormatBRL(totals.Expense))
	}
	return nil
}

type receiptCmd struct {
	Attach receiptAttachCmd `cmd:"" help:"Attach a receipt to a transaction."`
	Rm     receiptRmCmd     `cmd:"" help:"Remove a stored receipt."`
	Ls     receiptLsCmd     `cmd:"" help:"List stored receipts."`
}

type receiptAttachCmd struct {
	TransactionID string `arg:"" help:"Transaction id."`
	URI           string `arg:"" help:"Receipt URI."`
}

func (c *receiptAttachCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	// The record must exist before a receipt can point at it.
	if _, err := app.transactions.Get(app.ctx, user.UID, c.TransactionID); err != nil {
		return err
	}

	path, url, err := app.receipts.Attach(app.ctx, user.UID, c.TransactionID, c.URI)
	if err != nil {
		return err
	}

	result, err := app.transactions.Update(app.ctx, user.UID, c.TransactionID, core.TransactionPatch{
		ReceiptURL:  &url,
		ReceiptPath: &path,
	})
	if err != nil {
		return err
	}
	if !result.Validation.Valid {
		return validationError(result.Validation)
	}

	fmt.Printf("Comprovante anexado: %s\n", path)
	return nil
}

type receiptRmCmd struct {
	Path string `arg:"" help:"Receipt path as shown by 'receipt ls'."`
}

func (c *receiptRmCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}
	if err := app.receipts.Remove(app.ctx, user.UID, c.Path); err != nil {
		return err
	}
	fmt.Printf("Comprovante removido: %s\n", c.Path)
	return nil
}

type receiptLsCmd struct{}

func (c *receiptLsCmd) Run(app *appContext) error {
	user, err := requireUser(app)
	if err != nil {
		return err
	}

	receipts, err := app.receipts.List(app.ctx, user.UID)
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		fmt.Println("Nenhum comprovante armazenado")
		return nil
	}

	paths := make([]string, 0, len(receipts))
	for path := range receipts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		r := receipts[path]
		fmt.Printf("%s  %s  (transação %s)\n", path, r.URI, r.TransactionID)
	}
	return nil
}
