package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/nova/internal/audit"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
)

// OpRotate is the audit operation recorded by Rotate.
const OpRotate = "rotate"

// RotateResult contains the outcome of a rotate operation.
type RotateResult struct {
	Project string
	Scheme  secrets.Scheme
	Items   []ItemResult
}

// Rotated returns the paths that were re-encrypted.
func (r *RotateResult) Rotated() []string {
	var paths []string
	for _, item := range r.Items {
		if item.Err == nil {
			paths = append(paths, item.Path)
		}
	}
	return paths
}

// Err joins the per-item errors.
func (r *RotateResult) Err() error {
	return itemErrors(r.Items)
}

// Rotate re-encrypts every secret of the project under the engine's current
// scheme. Legacy records become sealed records with a fresh salt and nonce
// once the scheme is set to sealed.
//
// Returns ErrAuthenticationFailure if the password is wrong.
func Rotate(ctx context.Context, v *Vault, auth Authorization) (*RotateResult, error) {
	password, err := v.unlock()
	if err != nil {
		return nil, err
	}

	records, err := v.Secrets.GetAll(ctx, auth.Project)
	if err != nil {
		return nil, err
	}
	sortRecords(records)

	result := &RotateResult{
		Project: auth.Project,
		Scheme:  v.Engine.Scheme(),
		Items:   make([]ItemResult, 0, len(records)),
	}
	for _, record := range records {
		item := ItemResult{Path: record.Path}
		item.Err = v.rotateOne(ctx, record, password)
		result.Items = append(result.Items, item)
	}

	if rotated := result.Rotated(); len(rotated) > 0 {
		entry := audit.NewEntry(OpRotate, auth.Project)
		entry.Paths = rotated
		v.record(entry)
	}

	return result, nil
}

func (v *Vault) rotateOne(ctx context.Context, record store.SecretRecord, password string) error {
	plaintext, err := v.Engine.Decrypt(record.Content, password)
	if err != nil {
		return err
	}
	defer secrets.Wipe(plaintext)

	ciphertext, err := v.Engine.Encrypt(plaintext, password)
	if err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}

	record.Content = ciphertext
	return v.Secrets.Upsert(ctx, record)
}
