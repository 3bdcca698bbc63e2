package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/hijjiri/todo-api/internal/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "todo API base URL")
	mode := flag.String("mode", "list", "mode: create | list | update | delete")
	name := flag.String("name", "", "todoName for create")
	id := flag.String("id", "", "id for update / delete")
	completed := flag.Bool("completed", false, "completed flag for create / update")
	flag.Parse()

	c := client.New(*addr)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	switch *mode {
	case "create":
		if *name == "" {
			log.Fatal("name is required for create")
		}
		res, err := c.Save(ctx, client.Todo{TodoName: *name, Completed: *completed})
		if err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		fmt.Printf("created: id=%s todoName=%s completed=%v\n", res.ID, res.TodoName, res.Completed)

	case "list":
		res, err := c.List(ctx)
		if err != nil {
			log.Fatalf("List failed: %v", err)
		}
		if len(res) == 0 {
			fmt.Println("no todos")
			return
		}
		fmt.Println("todos:")
		for _, t := range res {
			fmt.Printf("- id=%s todoName=%s completed=%v\n", t.ID, t.TodoName, t.Completed)
		}

	case "update":
		if *id == "" {
			log.Fatal("id is required for update")
		}
		res, err := c.UpdateCompletion(ctx, *id, *completed)
		if client.IsNotFound(err) {
			log.Fatalf("todo %s not found", *id)
		}
		if err != nil {
			log.Fatalf("UpdateCompletion failed: %v", err)
		}
		fmt.Printf("updated: id=%s todoName=%s completed=%v\n", res.ID, res.TodoName, res.Completed)

	case "delete":
		if *id == "" {
			log.Fatal("id is required for delete")
		}
		if err := c.Delete(ctx, *id); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("deleted: id=%s\n", *id)

	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}
