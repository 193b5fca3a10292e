package bridge

import (
	"errors"
	"fmt"

	"github.com/CrimsonAS/qmvvm/commands"
	"github.com/CrimsonAS/qmvvm/model"
	"github.com/CrimsonAS/qmvvm/serialization"
)

var errUnknownCommand = errors.New("unknown command")

func (b *Bridge) subscribe() {
	mapper := b.model.Mapper()
	mapper.SetOnDataChange(b.onDataChange, b)
	mapper.SetOnItemInserted(b.onItemInserted, b)
	mapper.SetOnItemRemoved(b.onItemRemoved, b)
	mapper.SetOnModelAboutToBeReset(func(*model.SessionModel) { b.resetting = true }, b)
	mapper.SetOnModelReset(func(*model.SessionModel) {
		b.resetting = false
		b.sendModelReset()
	}, b)
	b.service.Stack().SetOnChanged(b.sendStackChanged, b)
}

func (b *Bridge) unsubscribe() {
	if !b.started {
		return
	}
	b.model.Mapper().Unsubscribe(b)
	b.service.Stack().Unsubscribe(b)
}

func (b *Bridge) pathString(item *model.SessionItem) (string, bool) {
	path, err := b.model.PathFromItem(item)
	if err != nil {
		b.warn("no path for %s: %s", item.ModelType(), err)
		return "", false
	}
	return path.String(), true
}

func (b *Bridge) onDataChange(item *model.SessionItem, role int) {
	if b.resetting {
		return
	}
	path, ok := b.pathString(item)
	if !ok {
		return
	}
	variant, err := serialization.MarshalVariant(item.Data(role))
	if err != nil {
		b.warn("marshal of role %d of %s failed: %s", role, item.Identifier(), err)
		return
	}
	b.sendMessage(dataChangedMessage{messageBase{"DATA_CHANGED"}, item.Identifier(), path, role, variant})
}

func (b *Bridge) onItemInserted(parent *model.SessionItem, tagRow model.TagRow) {
	if b.resetting {
		return
	}
	path, ok := b.pathString(parent)
	if !ok {
		return
	}
	child := parent.GetItem(tagRow.Tag, tagRow.Row)
	if child == nil {
		// already gone again, a removal notification follows
		return
	}
	data, err := serialization.ItemToJSON(child)
	if err != nil {
		b.warn("marshal of %s failed: %s", child.ModelType(), err)
		return
	}
	b.sendMessage(itemInsertedMessage{messageBase{"ITEM_INSERTED"}, path, tagRow.Tag, tagRow.Row, data})
}

func (b *Bridge) onItemRemoved(parent *model.SessionItem, tagRow model.TagRow) {
	if b.resetting {
		return
	}
	path, ok := b.pathString(parent)
	if !ok {
		return
	}
	b.sendMessage(itemRemovedMessage{messageBase{"ITEM_REMOVED"}, path, tagRow.Tag, tagRow.Row})
}

func (b *Bridge) sendModelReset() {
	data, err := serialization.ModelToJSON(b.model)
	if err != nil {
		b.fatal("marshal of model %s failed: %s", b.model.ModelType(), err)
		return
	}
	b.sendMessage(modelResetMessage{messageBase{"MODEL_RESET"}, data})
}

func (b *Bridge) sendStackChanged(stack *commands.CommandStack) {
	b.sendMessage(stackChangedMessage{
		messageBase: messageBase{"STACK_CHANGED"},
		Index:       stack.Index(),
		Count:       stack.Count(),
		CanUndo:     stack.CanUndo(),
		CanRedo:     stack.CanRedo(),
		UndoText:    stack.UndoDescription(),
		RedoText:    stack.RedoDescription(),
	})
}

// item resolves the identifier or, failing that, the path of a request.
func (b *Bridge) item(req *request) (*model.SessionItem, error) {
	if req.Identifier != "" {
		return b.model.FindItem(req.Identifier)
	}
	if req.Path == nil {
		return nil, errMissingItem
	}
	path, err := model.ParsePath(*req.Path)
	if err != nil {
		return nil, err
	}
	return b.model.ItemFromPath(path)
}

// parent resolves the parent of a request; nothing given means the root.
func (b *Bridge) parent(req *request) (*model.SessionItem, error) {
	if req.Parent != "" {
		return b.model.FindItem(req.Parent)
	}
	path, err := model.ParsePath(req.ParentPath)
	if err != nil {
		return nil, err
	}
	return b.model.ItemFromPath(path)
}

func (b *Bridge) apply(req *request) error {
	switch req.Command {
	case "SET_DATA":
		item, err := b.item(req)
		if err != nil {
			return err
		}
		value, err := serialization.UnmarshalVariant(req.Variant)
		if err != nil {
			return err
		}
		_, err = b.service.SetData(item, value, req.Role)
		return err

	case "INSERT_NEW":
		parent, err := b.parent(req)
		if err != nil {
			return err
		}
		_, err = b.service.InsertNewItem(req.ModelType, parent, req.Tag, req.row())
		return err

	case "REMOVE":
		parent, err := b.parent(req)
		if err != nil {
			return err
		}
		row := req.row()
		if row == -1 {
			row = parent.ItemCount(req.Tag) - 1
		}
		return b.service.RemoveItem(parent, req.Tag, row)

	case "MOVE":
		item, err := b.item(req)
		if err != nil {
			return err
		}
		parent, err := b.parent(req)
		if err != nil {
			return err
		}
		return b.service.MoveItem(item, parent, req.Tag, req.row())

	case "UNDO":
		return b.service.Undo()

	case "REDO":
		return b.service.Redo()

	case "QUERY":
		b.sendModelReset()
		return nil
	}
	return fmt.Errorf("%q: %w", req.Command, errUnknownCommand)
}
