// Package linkreg issues sharing links and keeps the resource table that makes
// them reachable. A link row is persisted before its token is registered, so a
// reachable token always has a database record behind it.
package linkreg

import (
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
)

type Registry struct {
	links stor.SharingLinkStor
	table ResourceTable
}

func NewRegistry(links stor.SharingLinkStor, table ResourceTable) *Registry {
	return &Registry{links: links, table: table}
}

// CreateLink issues a sharing link for file: generate the token, persist the
// link, and only then register the token. Returns the url id.
func (r *Registry) CreateLink(file *model.File) (string, error) {
	urlID, err := GenerateURLID()
	if err != nil {
		return "", err
	}

	if _, err := r.links.CreateSharingLink(file.ID, urlID); err != nil {
		return "", err
	}

	r.table.Register(urlID, file)

	return urlID, nil
}

// RevokeLink unregisters the token and removes the link row. A revoked token is
// gone for good; recreating a link for the same file issues a fresh token.
func (r *Registry) RevokeLink(link *model.SharingLink) error {
	r.table.Unregister(link.URLID)
	return r.links.DeleteSharingLink(link)
}

func (r *Registry) RevokeByURLID(urlID string) error {
	link, err := r.links.GetSharingLinkByURLID(urlID)
	if err != nil {
		return err
	}

	return r.RevokeLink(link)
}

// Unregister drops tokens from the resource table without touching the
// database. Used after a file delete has already cascaded the link rows.
func (r *Registry) Unregister(urlIDs []string) {
	for _, urlID := range urlIDs {
		r.table.Unregister(urlID)
	}
}

// RegisterAll re-registers every persisted link and returns how many were
// registered; orphaned links without a file don't count. Registrations don't
// survive a restart, so this must run before the server starts taking requests.
func (r *Registry) RegisterAll() (int, error) {
	links, err := r.links.ListAllSharingLinks()
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, link := range links {
		if link.File == nil {
			continue
		}
		r.table.Register(link.URLID, link.File)
		registered++
	}

	return registered, nil
}

// Resolve maps a token to its file through the resource table.
func (r *Registry) Resolve(urlID string) (*model.File, bool) {
	return r.table.Resolve(urlID)
}
