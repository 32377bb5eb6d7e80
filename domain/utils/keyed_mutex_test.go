package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("alice")
			defer unlock()
			current := counter
			counter = current + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockAlice := km.Lock("alice")
	done := make(chan struct{})
	go func() {
		unlockBob := km.Lock("bob")
		unlockBob()
		close(done)
	}()

	<-done
	assert.Equal(t, 1, km.Len())
	unlockAlice()
	assert.Equal(t, 0, km.Len())
}

func TestSequenceRandomSource_KeyedMutexFile(t *testing.T) {
	src := NewSequenceRandomSource(0, 4, 7)

	assert.Equal(t, 0, src.Intn(5))
	assert.Equal(t, 4, src.Intn(5))
	assert.Equal(t, 2, src.Intn(5))
	assert.Equal(t, 0, src.Intn(5))
}

func TestSecureRandomSource_InRange_KeyedMutexFile(t *testing.T) {
	src := NewSecureRandomSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
	assert.Equal(t, 0, src.Intn(1))
}
