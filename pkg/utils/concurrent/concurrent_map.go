package concurrent

import "sync"

// 默认分片数量
const DefaultShardCount = 32

// Map 是一个分片加锁的并发 Map
// K: 键的类型 (必须是可比较的)
// V: 值的类型 (任意)
// 分片数量越多,锁的粒度越小,并发性能越好,但内存开销稍大
type Map[K comparable, V any] struct {
	shards     []*shard[K, V]
	hashFunc   func(K) uint32 // 用于计算 Key 的哈希值,决定分片位置
	shardCount uint32
}

// shard 是内部的分片结构,每个分片拥有自己的锁和原生 Map
type shard[K comparable, V any] struct {
	items map[K]V
	sync.RWMutex
}

// NewMap 创建一个新的并发 Map
// hashFunc: 将 Key 转换为 uint32 整数的哈希函数
func NewMap[K comparable, V any](hashFunc func(K) uint32) *Map[K, V] {
	m := &Map[K, V]{
		shardCount: DefaultShardCount,
		hashFunc:   hashFunc,
	}
	m.shards = make([]*shard[K, V], m.shardCount)
	for i := uint32(0); i < m.shardCount; i++ {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) getShard(key K) *shard[K, V] {
	return m.shards[m.hashFunc(key)%m.shardCount]
}

// Set 写入键值对
func (m *Map[K, V]) Set(key K, value V) {
	s := m.getShard(key)
	s.Lock()
	defer s.Unlock()
	s.items[key] = value
}

// Get 读取键值对
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.getShard(key)
	s.RLock()
	defer s.RUnlock()
	val, ok := s.items[key]
	return val, ok
}

// Remove 删除键值对
func (m *Map[K, V]) Remove(key K) {
	s := m.getShard(key)
	s.Lock()
	defer s.Unlock()
	delete(s.items, key)
}

// Count 统计所有元素的数量(在极高并发下是近似值)
func (m *Map[K, V]) Count() int {
	count := 0
	for i := uint32(0); i < m.shardCount; i++ {
		s := m.shards[i]
		s.RLock()
		count += len(s.items)
		s.RUnlock()
	}
	return count
}

// Keys 获取所有的 Key
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0)
	for i := uint32(0); i < m.shardCount; i++ {
		s := m.shards[i]
		s.RLock()
		for k := range s.items {
			keys = append(keys, k)
		}
		s.RUnlock()
	}
	return keys
}

// IterCb 逐个分片加读锁遍历,回调返回 false 时停止遍历
func (m *Map[K, V]) IterCb(fn func(key K, v V) bool) {
	for i := uint32(0); i < m.shardCount; i++ {
		s := m.shards[i]
		s.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.RUnlock()
				return
			}
		}
		s.RUnlock()
	}
}

// Clear 清空 Map,直接用新的空 Map 替换旧的,由 GC 回收
func (m *Map[K, V]) Clear() {
	for i := uint32(0); i < m.shardCount; i++ {
		s := m.shards[i]
		s.Lock()
		s.items = make(map[K]V)
		s.Unlock()
	}
}
