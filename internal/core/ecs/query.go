package ecs

// Each1 iterates over live entities that have component A, in slot order.
func Each1[A any](r *Registry, fn func(EntityID, *A)) {
	ka, ok := KindOf[A](r)
	if !ok {
		return
	}
	pa := r.existingPool(ka)
	r.EachWith(MaskOf(ka), func(id EntityID) {
		fn(id, (*A)(pa.ElementAt(int(id.Index()))))
	})
}

// Each2 iterates over live entities that have both component A and B.
func Each2[A, B any](r *Registry, fn func(EntityID, *A, *B)) {
	ka, okA := KindOf[A](r)
	kb, okB := KindOf[B](r)
	if !okA || !okB {
		return
	}
	pa, pb := r.existingPool(ka), r.existingPool(kb)
	r.EachWith(MaskOf(ka, kb), func(id EntityID) {
		idx := int(id.Index())
		fn(id, (*A)(pa.ElementAt(idx)), (*B)(pb.ElementAt(idx)))
	})
}

// Each3 iterates over live entities that have components A, B, and C.
func Each3[A, B, C any](r *Registry, fn func(EntityID, *A, *B, *C)) {
	ka, okA := KindOf[A](r)
	kb, okB := KindOf[B](r)
	kc, okC := KindOf[C](r)
	if !okA || !okB || !okC {
		return
	}
	pa, pb, pc := r.existingPool(ka), r.existingPool(kb), r.existingPool(kc)
	r.EachWith(MaskOf(ka, kb, kc), func(id EntityID) {
		idx := int(id.Index())
		fn(id, (*A)(pa.ElementAt(idx)), (*B)(pb.ElementAt(idx)), (*C)(pc.ElementAt(idx)))
	})
}
