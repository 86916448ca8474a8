package service

import (
	"context"
	"sync"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// In-memory backends for service tests. Each one counts writes so tests can
// assert that failed authentication never reaches storage.

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	writes   int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]model.Account)}
}

func (r *memAccountRepo) SaveAccount(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if _, ok := r.accounts[account.PublicKey]; ok {
		return repository.ErrDuplicateAccount
	}
	r.accounts[account.PublicKey] = *account
	return nil
}

func (r *memAccountRepo) FindByPublicKey(_ context.Context, publicKey string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[publicKey]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &account, nil
}

type memOfferRepo struct {
	mu     sync.Mutex
	offers map[int64]model.Offer
	nextID int64
	writes int
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[int64]model.Offer), nextID: 1}
}

func (r *memOfferRepo) SaveOffer(_ context.Context, offer *model.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if offer.ID == 0 {
		offer.ID = r.nextID
		r.nextID++
	} else if _, ok := r.offers[offer.ID]; !ok {
		return repository.ErrOfferNotFound
	}
	r.offers[offer.ID] = *offer
	return nil
}

func (r *memOfferRepo) FindByID(_ context.Context, id int64) (*model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrOfferNotFound
	}
	return &offer, nil
}

func (r *memOfferRepo) FindByOwner(_ context.Context, owner string) ([]model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Offer
	for _, offer := range r.offers {
		if offer.Owner == owner {
			out = append(out, offer)
		}
	}
	return out, nil
}

func (r *memOfferRepo) FindByIDAndOwner(_ context.Context, id int64, owner string) (*model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok || offer.Owner != owner {
		return nil, repository.ErrOfferNotFound
	}
	return &offer, nil
}

func (r *memOfferRepo) DeleteOffer(_ context.Context, id int64, owner string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	offer, ok := r.offers[id]
	if !ok || offer.Owner != owner {
		return 0, nil
	}
	delete(r.offers, id)
	return 1, nil
}

type shareKey struct {
	offerID  int64
	clientID string
}

type memShareRepo struct {
	mu     sync.Mutex
	shares map[shareKey]model.OfferShareData
	nextID int64
	writes int
}

func newMemShareRepo() *memShareRepo {
	return &memShareRepo{shares: make(map[shareKey]model.OfferShareData), nextID: 1}
}

func (r *memShareRepo) SaveShareData(_ context.Context, share *model.OfferShareData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	key := shareKey{share.OfferID, share.ClientID}
	if share.ID == 0 {
		if _, ok := r.shares[key]; ok {
			return repository.ErrDuplicateShare
		}
		share.ID = r.nextID
		r.nextID++
	}
	r.shares[key] = *share
	return nil
}

func (r *memShareRepo) FindByOfferIDAndClientID(_ context.Context, offerID int64, clientID string) (*model.OfferShareData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.shares[shareKey{offerID, clientID}]
	if !ok {
		return nil, repository.ErrShareNotFound
	}
	return &share, nil
}

func (r *memShareRepo) FindByOfferOwner(_ context.Context, owner string) ([]model.OfferShareData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OfferShareData
	for _, share := range r.shares {
		if share.OfferOwner == owner {
			out = append(out, share)
		}
	}
	return out, nil
}

func (r *memShareRepo) FindByOfferOwnerAndAccepted(_ context.Context, owner string, accepted bool) ([]model.OfferShareData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OfferShareData
	for _, share := range r.shares {
		if share.OfferOwner == owner && share.Accepted == accepted {
			out = append(out, share)
		}
	}
	return out, nil
}

type memFileRepo struct {
	mu     sync.Mutex
	files  map[int64]model.File
	nextID int64
	writes int
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[int64]model.File), nextID: 1}
}

func (r *memFileRepo) SaveFile(_ context.Context, file *model.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if file.ID == 0 {
		file.ID = r.nextID
		r.nextID++
	} else {
		existing, ok := r.files[file.ID]
		if !ok || existing.PublicKey != file.PublicKey {
			return repository.ErrFileNotFound
		}
	}
	r.files[file.ID] = *file
	return nil
}

func (r *memFileRepo) FindByIDAndPublicKey(_ context.Context, id int64, publicKey string) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, ok := r.files[id]
	if !ok || file.PublicKey != publicKey {
		return nil, repository.ErrFileNotFound
	}
	return &file, nil
}

func (r *memFileRepo) FindByPublicKey(_ context.Context, publicKey string) ([]model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.File
	for _, file := range r.files {
		if file.PublicKey == publicKey {
			out = append(out, file)
		}
	}
	return out, nil
}

func (r *memFileRepo) DeleteFile(_ context.Context, id int64, publicKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, ok := r.files[id]
	if !ok || file.PublicKey != publicKey {
		return 0, nil
	}
	delete(r.files, id)
	r.writes++
	return 1, nil
}

type memProfileRepo struct {
	mu     sync.Mutex
	data   map[string]map[string]string
	writes int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{data: make(map[string]map[string]string)}
}

func (r *memProfileRepo) GetData(_ context.Context, publicKey string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.data[publicKey]))
	for k, v := range r.data[publicKey] {
		out[k] = v
	}
	return out, nil
}

func (r *memProfileRepo) UpdateData(_ context.Context, publicKey string, data map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.data[publicKey] == nil {
		r.data[publicKey] = make(map[string]string)
	}
	for k, v := range data {
		r.data[publicKey][k] = v
	}
	return nil
}
