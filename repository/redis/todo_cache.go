package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/repository"
)

const (
	keyList       = "todo:list"
	keyItemPrefix = "todo:item:"
)

type todoCache struct {
	client *goRedis.Client
	ttl    time.Duration
}

// NewTodoCache returns a Redis-backed read cache for todos.
func NewTodoCache(client *goRedis.Client, ttl time.Duration) repository.TodoCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &todoCache{client: client, ttl: ttl}
}

func (c *todoCache) GetList(ctx context.Context) ([]domain.Todo, error) {
	b, err := c.client.Get(ctx, keyList).Bytes()
	if errors.Is(err, goRedis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var todos []domain.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *todoCache) SetList(ctx context.Context, todos []domain.Todo) error {
	b, err := json.Marshal(todos)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyList, b, c.ttl).Err()
}

func (c *todoCache) GetItem(ctx context.Context, id int64) (*domain.Todo, error) {
	b, err := c.client.Get(ctx, itemKey(id)).Bytes()
	if errors.Is(err, goRedis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var todo domain.Todo
	if err := json.Unmarshal(b, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *todoCache) SetItem(ctx context.Context, todo *domain.Todo) error {
	if todo == nil {
		return nil
	}
	b, err := json.Marshal(todo)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, itemKey(todo.ID), b, c.ttl).Err()
}

// Invalidate drops the list key together with the touched item.
func (c *todoCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, keyList, itemKey(id)).Err()
}

// InvalidateAll removes the list key and every cached item.
func (c *todoCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Del(ctx, keyList).Err(); err != nil {
		return err
	}
	iter := c.client.Scan(ctx, 0, keyItemPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func itemKey(id int64) string {
	return fmt.Sprintf("%s%d", keyItemPrefix, id)
}
