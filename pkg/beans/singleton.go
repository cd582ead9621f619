package beans

import "sync"

var singletons sync.Map // Type -> instance

// Singleton returns the process-wide instance of M, creating it on first use.
// Instances are keyed by their instantiated type, so each instantiation of a
// generic meta-bean gets its own.
func Singleton[M any](create func() M) M {
	key := TypeOf[M]()
	if v, ok := singletons.Load(key); ok {
		return v.(M)
	}
	v, _ := singletons.LoadOrStore(key, create())
	return v.(M)
}
