package workflows

import (
	"context"
	"fmt"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
	"github.com/PolarWolf314/nova/internal/secrets"
	"github.com/PolarWolf314/nova/internal/store"
	"github.com/PolarWolf314/nova/internal/utils"
)

// CheckStatus describes how a local file compares with its stored secret.
type CheckStatus string

const (
	StatusIdentical    CheckStatus = "identical"
	StatusNonIdentical CheckStatus = "non-identical"
	StatusNonExistent  CheckStatus = "non-existent"
)

// CheckItem is the outcome for one stored secret.
type CheckItem struct {
	ItemResult
	Status CheckStatus
}

// CheckResult contains the outcome of a check operation.
type CheckResult struct {
	Project string
	Items   []CheckItem
}

// Drifted returns the number of secrets whose local file differs or is missing.
func (r *CheckResult) Drifted() int {
	n := 0
	for _, item := range r.Items {
		if item.Err == nil && item.Status != StatusIdentical {
			n++
		}
	}
	return n
}

// Err joins the per-item errors. Drift is not an error.
func (r *CheckResult) Err() error {
	items := make([]ItemResult, len(r.Items))
	for i, item := range r.Items {
		items[i] = item.ItemResult
	}
	return itemErrors(items)
}

// Check compares every stored secret of the project with the file at
// <ProjectsDir>/<project>/<path>. Nothing is written.
//
// Returns ErrAuthenticationFailure if the password is wrong.
func Check(ctx context.Context, v *Vault, auth Authorization) (*CheckResult, error) {
	password, err := v.unlock()
	if err != nil {
		return nil, err
	}

	records, err := v.Secrets.GetAll(ctx, auth.Project)
	if err != nil {
		return nil, err
	}
	sortRecords(records)

	result := &CheckResult{
		Project: auth.Project,
		Items:   make([]CheckItem, 0, len(records)),
	}
	for _, record := range records {
		item := CheckItem{ItemResult: ItemResult{Path: record.Path}}
		item.LocalPath, item.Err = v.localPath(record.Project, record.Path)
		if item.Err == nil {
			item.Status, item.Err = v.checkOne(record, item.LocalPath, password)
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

func (v *Vault) checkOne(record store.SecretRecord, localPath, password string) (CheckStatus, error) {
	plaintext, err := v.Engine.Decrypt(record.Content, password)
	if err != nil {
		return "", err
	}
	defer secrets.Wipe(plaintext)

	exists, identical, err := utils.FileMatches(localPath, plaintext)
	switch {
	case err != nil:
		return "", fmt.Errorf("%w: %v", nerrors.ErrFilesystem, err)
	case !exists:
		return StatusNonExistent, nil
	case identical:
		return StatusIdentical, nil
	default:
		return StatusNonIdentical, nil
	}
}
