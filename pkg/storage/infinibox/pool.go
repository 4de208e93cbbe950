package infinibox

import (
	"sync"

	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

//PoolResolver resolve pool ids and keep the handles for the driver lifetime.
type PoolResolver struct {
	array storage.IArray

	lock  sync.RWMutex
	pools map[int64]*storage.Pool
}

func NewPoolResolver(array storage.IArray) *PoolResolver {
	return &PoolResolver{array: array, pools: map[int64]*storage.Pool{}}
}

func (r *PoolResolver) Resolve(poolID int64) (*storage.Pool, error) {
	r.lock.RLock()
	pool, ok := r.pools[poolID]
	r.lock.RUnlock()
	if ok {
		return pool, nil
	}

	pool, err := r.array.GetPool(poolID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.WrapWithNotFoundError(err, "pool %d", poolID)
		}
		return nil, err
	}

	r.lock.Lock()
	r.pools[poolID] = pool
	r.lock.Unlock()

	glog.Infof("pool %d resolved as %s", poolID, pool.Name)
	return pool, nil
}
