package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"passvault/internal/common"
	"passvault/internal/vault/models"
	"passvault/internal/vault/session"
)

func (a *App) Init(ctx context.Context) error {
	if a.isInitialized() {
		fmt.Println("Master password is already set. Use 'passwd' to change it.")
		return nil
	}

	pw, err := a.askNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeBytes(pw)

	if err := a.session.SetMasterPassword(ctx, pw); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Vault initialized and unlocked.")
	return nil
}

func (a *App) Unlock(ctx context.Context) error {
	pw, err := GetPassword("Master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeBytes(pw)

	err = a.session.Unlock(ctx, pw)
	switch {
	case errors.Is(err, common.ErrWrongPassword):
		fmt.Println("Wrong master password.")
	case err != nil:
		fmt.Println("Error:", err)
	default:
		fmt.Println("Vault unlocked.")
	}
	return err
}

func (a *App) Lock(ctx context.Context) error {
	a.session.Lock()
	fmt.Println("Vault locked.")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isUnlocked() {
		fmt.Println("Unlock the vault first.")
		return common.ErrLocked
	}

	pw, err := a.askNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeBytes(pw)

	if err := a.session.SetMasterPassword(ctx, pw); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Master password changed; all secrets re-encrypted.")
	return nil
}

func (a *App) askNewPassword() ([]byte, error) {
	pw, err := GetPassword("New master password", os.Stdout)
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword("Repeat master password", os.Stdout)
	if err != nil {
		common.WipeBytes(pw)
		return nil, err
	}
	defer common.WipeBytes(confirm)

	if string(pw) != string(confirm) {
		common.WipeBytes(pw)
		fmt.Println("Passwords do not match.")
		return nil, common.ErrValidation
	}
	if len(pw) == 0 {
		fmt.Println("Password must not be empty.")
		return nil, common.ErrValidation
	}
	return pw, nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username (optional)", os.Stdout)
	if err != nil {
		return err
	}
	secret, err := GetPassword("Secret", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeBytes(secret)
	website, err := GetSimpleText(a.reader, "Website (optional)", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		return err
	}
	categoryID, err := a.askCategory()
	if err != nil {
		return err
	}

	id, err := a.session.AddSecret(ctx, session.SecretInput{
		Title:      title,
		Username:   username,
		Secret:     string(secret),
		Website:    website,
		Notes:      notes,
		CategoryID: categoryID,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Added:", id)
	return nil
}

func (a *App) askCategory() (*string, error) {
	id, err := GetSimpleText(a.reader, "Category id (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return &id, nil
}

func (a *App) Update(ctx context.Context, id string) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username (optional)", os.Stdout)
	if err != nil {
		return err
	}
	secret, err := GetPassword("Secret", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeBytes(secret)
	website, err := GetSimpleText(a.reader, "Website (optional)", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		return err
	}
	categoryID, err := a.askCategory()
	if err != nil {
		return err
	}

	err = a.session.UpdateSecret(ctx, id, session.SecretInput{
		Title:      title,
		Username:   username,
		Secret:     string(secret),
		Website:    website,
		Notes:      notes,
		CategoryID: categoryID,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Updated.")
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	rec, err := a.session.ReadSecret(ctx, id)
	switch {
	case errors.Is(err, common.ErrCorruptPayload):
		fmt.Println("Cannot decrypt this record: it was written under a different master password or is corrupted.")
		return err
	case err != nil:
		fmt.Println("Error:", err)
		return err
	}

	fmt.Println("Title:   ", rec.Title)
	fmt.Println("Username:", rec.Username)
	fmt.Println("Secret:  ", rec.Secret)
	fmt.Println("Website: ", rec.Website)
	if rec.Notes != "" {
		fmt.Println("Notes:   ", rec.Notes)
	}
	fmt.Println("Updated: ", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) List(ctx context.Context) error {
	recs, err := a.session.ListRecords(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printRecords(recs)
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	recs, err := a.session.Search(ctx, query)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printRecords(recs)
	return nil
}

func printRecords(recs []models.Record) {
	if len(recs) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, r := range recs {
		fmt.Printf("%s  %-20s %-15s %s\n", r.ID, r.Title, r.Username, r.Website)
	}
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.session.DeleteSecret(ctx, id); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

func (a *App) AddCategory(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Category name", os.Stdout)
	if err != nil {
		return err
	}
	parentID, err := a.askParentCategory()
	if err != nil {
		return err
	}

	id, err := a.session.AddCategory(ctx, name, parentID)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Added:", id)
	return nil
}

func (a *App) askParentCategory() (*string, error) {
	id, err := GetSimpleText(a.reader, "Parent category id (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return &id, nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.session.ListCategoriesFlat(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if len(cats) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, c := range cats {
		fmt.Printf("%s  %s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) Tree(ctx context.Context) error {
	tree, err := a.session.CategoryTree(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if len(tree) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	printTree(tree, 0)
	return nil
}

func printTree(nodes []*models.CategoryNode, depth int) {
	for _, n := range nodes {
		fmt.Printf("%s%s  (%s)\n", strings.Repeat("  ", depth), n.Name, n.ID)
		printTree(n.Children, depth+1)
	}
}

func (a *App) DeleteCategory(ctx context.Context, id string) error {
	if err := a.session.DeleteCategory(ctx, id); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Deleted. Child categories and records kept, now uncategorized.")
	return nil
}

func (a *App) Gen(ctx context.Context) error {
	pw, err := common.GeneratePassword(16)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println(pw)
	return nil
}
